package walletsvc

import (
	"context"
	"database/sql"
	"errors"

	walletrepo "github.com/PrajwalNandaragi/Smart-Parking-System/repository/wallet"
)

type ErrCode string

const (
	ErrInvalidAmount ErrCode = "INVALID_AMOUNT"
	ErrNotFound      ErrCode = "NOT_FOUND"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

type PaymentRow = walletrepo.PaymentRow

type Service interface {
	// Recharge credits the wallet and returns the new balance. Amount must
	// be positive and at most maxRecharge per call.
	Recharge(ctx context.Context, userID int64, amount float64) (float64, error)

	Balance(ctx context.Context, userID int64) (float64, error)

	// MyPayments lists the user's recent payment records.
	MyPayments(ctx context.Context, userID int64) ([]PaymentRow, error)

	// AllPayments is the admin listing.
	AllPayments(ctx context.Context) ([]PaymentRow, error)
}

type service struct {
	db          *sql.DB
	r           walletrepo.Repo
	maxRecharge float64
}

func New(db *sql.DB, r walletrepo.Repo, maxRecharge float64) Service {
	return &service{db: db, r: r, maxRecharge: maxRecharge}
}

// Recharge is a read-add-write under a row lock so concurrent recharges
// and exit debits for the same wallet serialize cleanly.
func (s *service) Recharge(ctx context.Context, userID int64, amount float64) (newBalance float64, err error) {
	if amount <= 0 || amount > s.maxRecharge {
		return 0, makeErr(ErrInvalidAmount)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	balance, err := s.r.BalanceForUpdate(ctx, tx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, makeErr(ErrNotFound)
		}
		return 0, err
	}
	newBalance = balance + amount
	if err = s.r.UpdateBalance(ctx, tx, userID, newBalance); err != nil {
		return 0, err
	}
	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return newBalance, nil
}

func (s *service) Balance(ctx context.Context, userID int64) (float64, error) {
	bal, err := s.r.Balance(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, makeErr(ErrNotFound)
		}
		return 0, err
	}
	return bal, nil
}

func (s *service) MyPayments(ctx context.Context, userID int64) ([]PaymentRow, error) {
	return s.r.ListPayments(ctx, userID)
}

func (s *service) AllPayments(ctx context.Context) ([]PaymentRow, error) {
	return s.r.ListAllPayments(ctx)
}
