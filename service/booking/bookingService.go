package bookingsvc

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/PrajwalNandaragi/Smart-Parking-System/model"
	bookingrepo "github.com/PrajwalNandaragi/Smart-Parking-System/repository/booking"
)

// errors used by controllers

type ErrCode string

const (
	ErrSlotUnavailable     ErrCode = "SLOT_UNAVAILABLE"
	ErrInsufficientBalance ErrCode = "INSUFFICIENT_BALANCE"
	ErrNotFound            ErrCode = "NOT_FOUND"
	ErrNotOwner            ErrCode = "NOT_OWNER"
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

// InsufficientBalanceError reports the billed amount and the balance that
// could not cover it. The booking is still force-completed and the slot
// freed; only the debit is withheld.
type InsufficientBalanceError struct {
	Amount  float64
	Balance float64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient wallet balance: have %.2f need %.2f", e.Balance, e.Amount)
}
func (e *InsufficientBalanceError) Code() ErrCode      { return ErrInsufficientBalance }
func (e *InsufficientBalanceError) Shortfall() float64 { return e.Amount - e.Balance }

// dto

type ExitResult struct {
	BookingID     int64     `json:"booking_id"`
	ExitTime      time.Time `json:"exit_time"`
	BilledHours   int64     `json:"billed_hours"`
	Amount        float64   `json:"amount"`
	TransactionID string    `json:"transaction_id"`
	NewBalance    float64   `json:"new_balance"`
}

// HistoryRow = repository shape
type HistoryRow = bookingrepo.HistoryRow

type Service interface {
	// Create: reserve an Available slot and open an Active booking,
	// atomically.
	Create(ctx context.Context, userID, vehicleID, slotID, areaID int64) (*model.Booking, error)

	// ProcessExit: close an Active booking, bill the elapsed time from the
	// wallet, free the slot, record the payment.
	ProcessExit(ctx context.Context, userID, bookingID int64) (*ExitResult, error)

	// MyHistory: list bookings for a user.
	MyHistory(ctx context.Context, userID int64) ([]HistoryRow, error)

	// History: admin listing, optionally filtered by status.
	History(ctx context.Context, status model.BookingStatus) ([]HistoryRow, error)
}

// ----- Service implementation -----

type service struct {
	db  *sql.DB
	r   bookingrepo.Repo
	log *slog.Logger
	now func() time.Time
}

func New(db *sql.DB, r bookingrepo.Repo, log *slog.Logger) Service {
	return &service{db: db, r: r, log: log, now: time.Now}
}

// NewWithClock is for tests that need deterministic transaction ids.
func NewWithClock(db *sql.DB, r bookingrepo.Repo, log *slog.Logger, now func() time.Time) Service {
	return &service{db: db, r: r, log: log, now: now}
}

// billedHours rounds elapsed time up to whole hours, minimum one. A stay
// under an hour is still billed a full hour.
func billedHours(entry, exit time.Time) int64 {
	h := int64(math.Ceil(exit.Sub(entry).Hours()))
	if h < 1 {
		return 1
	}
	return h
}

// newTransactionID builds a token like TXN20250114093042x8317. Uniqueness
// is ultimately enforced by the payments.transaction_id unique index.
func (s *service) newTransactionID() string {
	return fmt.Sprintf("TXN%s%04d", s.now().UTC().Format("20060102150405"), rand.Intn(10000))
}

// Create reserves the slot and opens the booking in one transaction. If
// the slot was taken between selection and commit, nothing is mutated and
// the caller must re-select.
func (s *service) Create(ctx context.Context, userID, vehicleID, slotID, areaID int64) (b *model.Booking, err error) {
	owner, err := s.r.VehicleOwner(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	if owner != userID {
		return nil, makeErr(ErrNotOwner)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.r.LockAvailableSlot(ctx, tx, slotID, areaID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrSlotUnavailable)
		}
		return nil, err
	}

	bookingID, entryTime, err := s.r.InsertBooking(ctx, tx, userID, vehicleID, slotID)
	if err != nil {
		return nil, err
	}
	if err = s.r.SetSlotStatus(ctx, tx, slotID, model.SlotOccupied); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}

	return &model.Booking{
		ID:        bookingID,
		UserID:    userID,
		VehicleID: vehicleID,
		SlotID:    slotID,
		EntryTime: entryTime,
		Status:    model.BookingActive,
	}, nil
}

// ProcessExit runs the exit-and-billing transaction. The exit clock comes
// from the database server so exit_time >= entry_time regardless of client
// clocks. The wallet row stays locked for the whole transaction, which
// serializes concurrent exits and recharges for the same user.
func (s *service) ProcessExit(ctx context.Context, userID, bookingID int64) (res *ExitResult, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	ab, err := s.r.LockActiveBooking(ctx, tx, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// unknown, completed, or cancelled: never double-bill
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	if ab.UserID != userID {
		return nil, makeErr(ErrNotOwner)
	}

	exitTime, err := s.r.StoreNow(ctx, tx)
	if err != nil {
		return nil, err
	}
	hours := billedHours(ab.EntryTime, exitTime)
	amount := float64(hours) * ab.HourlyRate

	balance, err := s.r.WalletForUpdate(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	if balance < amount {
		_ = tx.Rollback()
		s.forceComplete(ctx, bookingID, ab.SlotID, amount)
		err = &InsufficientBalanceError{Amount: amount, Balance: balance}
		return nil, err
	}

	newBalance := balance - amount
	txnID := s.newTransactionID()

	if err = s.r.UpdateWalletBalance(ctx, tx, userID, newBalance); err != nil {
		return nil, err
	}
	if err = s.r.CompleteBooking(ctx, tx, bookingID, exitTime); err != nil {
		return nil, err
	}
	if err = s.r.SetSlotStatus(ctx, tx, ab.SlotID, model.SlotAvailable); err != nil {
		return nil, err
	}
	if err = s.r.InsertPayment(ctx, tx, bookingID, amount, model.PaymentSuccess, txnID); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}

	return &ExitResult{
		BookingID:     bookingID,
		ExitTime:      exitTime,
		BilledHours:   hours,
		Amount:        amount,
		TransactionID: txnID,
		NewBalance:    newBalance,
	}, nil
}

// forceComplete closes the booking and frees the slot even though the
// wallet could not cover the fare: the vehicle has physically left. The
// payment is recorded FAILED and the wallet untouched. Best effort: if
// this transaction fails too the booking stays Active and the gap is
// logged for manual reconciliation.
func (s *service) forceComplete(ctx context.Context, bookingID, slotID int64, amount float64) {
	err := func() (err error) {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() {
			if err != nil {
				_ = tx.Rollback()
			}
		}()

		if _, err = s.r.LockActiveBooking(ctx, tx, bookingID); err != nil {
			return err
		}
		exitTime, err := s.r.StoreNow(ctx, tx)
		if err != nil {
			return err
		}
		if err = s.r.CompleteBooking(ctx, tx, bookingID, exitTime); err != nil {
			return err
		}
		if err = s.r.SetSlotStatus(ctx, tx, slotID, model.SlotAvailable); err != nil {
			return err
		}
		if err = s.r.InsertPayment(ctx, tx, bookingID, amount, model.PaymentFailed, s.newTransactionID()); err != nil {
			return err
		}
		return tx.Commit()
	}()
	if err != nil {
		s.log.Error("exit force-complete failed, booking left Active for manual reconciliation",
			"booking_id", bookingID,
			"slot_id", slotID,
			"amount", amount,
			"err", err,
		)
	}
}

func (s *service) MyHistory(ctx context.Context, userID int64) ([]HistoryRow, error) {
	return s.r.ListByUser(ctx, userID)
}

func (s *service) History(ctx context.Context, status model.BookingStatus) ([]HistoryRow, error) {
	switch status {
	case "", model.BookingActive, model.BookingCompleted, model.BookingCancelled:
	default:
		return nil, makeErr(ErrNotFound)
	}
	return s.r.List(ctx, status)
}
