package walletrepo

import (
	"context"
	"database/sql"
	"time"

	"github.com/PrajwalNandaragi/Smart-Parking-System/model"
)

// PaymentRow is a payment joined with its booking context for history pages.
type PaymentRow struct {
	ID            int64               `json:"id"`
	BookingID     int64               `json:"booking_id"`
	VehicleNumber string              `json:"vehicle_number"`
	AreaName      string              `json:"area_name"`
	SlotNumber    string              `json:"slot_number"`
	Amount        float64             `json:"amount"`
	Status        model.PaymentStatus `json:"status"`
	TransactionID string              `json:"transaction_id"`
	CreatedAt     time.Time           `json:"created_at"`
}

type Repo interface {
	Balance(ctx context.Context, userID int64) (float64, error)
	BalanceForUpdate(ctx context.Context, tx *sql.Tx, userID int64) (float64, error)
	UpdateBalance(ctx context.Context, tx *sql.Tx, userID int64, newBalance float64) error
	ListPayments(ctx context.Context, userID int64) ([]PaymentRow, error)
	ListAllPayments(ctx context.Context) ([]PaymentRow, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) Balance(ctx context.Context, userID int64) (float64, error) {
	const q = `SELECT balance FROM wallets WHERE user_id = $1`
	var bal float64
	err := r.db.QueryRowContext(ctx, q, userID).Scan(&bal)
	return bal, err
}

func (r *repo) BalanceForUpdate(ctx context.Context, tx *sql.Tx, userID int64) (float64, error) {
	const q = `SELECT balance FROM wallets WHERE user_id = $1 FOR UPDATE`
	var bal float64
	if err := tx.QueryRowContext(ctx, q, userID).Scan(&bal); err != nil {
		return 0, err
	}
	return bal, nil
}

func (r *repo) UpdateBalance(ctx context.Context, tx *sql.Tx, userID int64, newBalance float64) error {
	const q = `UPDATE wallets SET balance = $2 WHERE user_id = $1`
	_, err := tx.ExecContext(ctx, q, userID, newBalance)
	return err
}

const paymentSelect = `
	SELECT p.id, p.booking_id, v.vehicle_number, pa.area_name, ps.slot_number,
	       p.amount, p.status, p.transaction_id, p.created_at
	FROM payments p
	JOIN bookings b ON b.id = p.booking_id
	JOIN vehicles v ON v.id = b.vehicle_id
	JOIN parking_slots ps ON ps.id = b.slot_id
	JOIN parking_areas pa ON pa.id = ps.area_id`

func (r *repo) ListPayments(ctx context.Context, userID int64) ([]PaymentRow, error) {
	q := paymentSelect + `
	WHERE b.user_id = $1
	ORDER BY p.created_at DESC
	LIMIT 50`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	return scanPayments(rows)
}

func (r *repo) ListAllPayments(ctx context.Context) ([]PaymentRow, error) {
	q := paymentSelect + `
	ORDER BY p.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	return scanPayments(rows)
}

func scanPayments(rows *sql.Rows) ([]PaymentRow, error) {
	defer rows.Close()
	var out []PaymentRow
	for rows.Next() {
		var p PaymentRow
		if err := rows.Scan(
			&p.ID, &p.BookingID, &p.VehicleNumber, &p.AreaName, &p.SlotNumber,
			&p.Amount, &p.Status, &p.TransactionID, &p.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
