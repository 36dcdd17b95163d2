// repository/booking/bookingRepository.go
package bookingrepo

import (
	"context"
	"database/sql"
	"time"

	"github.com/PrajwalNandaragi/Smart-Parking-System/model"
)

// ActiveBooking is the row the exit transaction works on: the booking
// locked FOR UPDATE joined with the slot and the area's billing rate.
type ActiveBooking struct {
	ID         int64
	UserID     int64
	VehicleID  int64
	SlotID     int64
	EntryTime  time.Time
	HourlyRate float64
}

// HistoryRow is a booking joined with vehicle/area/slot labels and, when
// present, its payment.
type HistoryRow struct {
	BookingID     int64               `json:"booking_id"`
	VehicleNumber string              `json:"vehicle_number"`
	AreaName      string              `json:"area_name"`
	SlotNumber    string              `json:"slot_number"`
	EntryTime     time.Time           `json:"entry_time"`
	ExitTime      *time.Time          `json:"exit_time,omitempty"`
	Status        model.BookingStatus `json:"status"`
	Amount        *float64            `json:"amount,omitempty"`
	PaymentStatus *string             `json:"payment_status,omitempty"`
	TransactionID *string             `json:"transaction_id,omitempty"`
}

type Repo interface {
	// Preconditions
	VehicleOwner(ctx context.Context, vehicleID int64) (int64, error)

	// Booking creation (all inside the caller's tx)
	LockAvailableSlot(ctx context.Context, tx *sql.Tx, slotID, areaID int64) error
	InsertBooking(ctx context.Context, tx *sql.Tx, userID, vehicleID, slotID int64) (int64, time.Time, error)
	SetSlotStatus(ctx context.Context, tx *sql.Tx, slotID int64, status model.SlotStatus) error

	// Exit & billing (all inside the caller's tx)
	LockActiveBooking(ctx context.Context, tx *sql.Tx, bookingID int64) (*ActiveBooking, error)
	StoreNow(ctx context.Context, tx *sql.Tx) (time.Time, error)
	WalletForUpdate(ctx context.Context, tx *sql.Tx, userID int64) (float64, error)
	UpdateWalletBalance(ctx context.Context, tx *sql.Tx, userID int64, newBalance float64) error
	CompleteBooking(ctx context.Context, tx *sql.Tx, bookingID int64, exitTime time.Time) error
	InsertPayment(ctx context.Context, tx *sql.Tx, bookingID int64, amount float64, status model.PaymentStatus, transactionID string) error

	// History
	ListByUser(ctx context.Context, userID int64) ([]HistoryRow, error)
	List(ctx context.Context, status model.BookingStatus) ([]HistoryRow, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) VehicleOwner(ctx context.Context, vehicleID int64) (int64, error) {
	const q = `
		SELECT user_id
		FROM vehicles
		WHERE id = $1`
	var owner int64
	err := r.db.QueryRowContext(ctx, q, vehicleID).Scan(&owner)
	return owner, err
}

// LockAvailableSlot re-verifies availability under a row lock. Losing the
// race (slot gone or no longer Available) surfaces as sql.ErrNoRows.
func (r *repo) LockAvailableSlot(ctx context.Context, tx *sql.Tx, slotID, areaID int64) error {
	const q = `
		SELECT id
		FROM parking_slots
		WHERE id = $1
		AND area_id = $2
		AND status = 'Available'
		FOR UPDATE`
	var id int64
	return tx.QueryRowContext(ctx, q, slotID, areaID).Scan(&id)
}

func (r *repo) InsertBooking(ctx context.Context, tx *sql.Tx, userID, vehicleID, slotID int64) (int64, time.Time, error) {
	const q = `
		INSERT INTO bookings (user_id, vehicle_id, slot_id, entry_time, status)
		VALUES ($1, $2, $3, now(), 'Active')
		RETURNING id, entry_time`
	var id int64
	var entry time.Time
	if err := tx.QueryRowContext(ctx, q, userID, vehicleID, slotID).Scan(&id, &entry); err != nil {
		return 0, time.Time{}, err
	}
	return id, entry, nil
}

func (r *repo) SetSlotStatus(ctx context.Context, tx *sql.Tx, slotID int64, status model.SlotStatus) error {
	const q = `
		UPDATE parking_slots
		SET status = $2
		WHERE id = $1`
	_, err := tx.ExecContext(ctx, q, slotID, status)
	return err
}

func (r *repo) LockActiveBooking(ctx context.Context, tx *sql.Tx, bookingID int64) (*ActiveBooking, error) {
	const q = `
		SELECT b.id, b.user_id, b.vehicle_id, b.slot_id, b.entry_time, pa.hourly_rate
		FROM bookings b
		JOIN parking_slots ps ON ps.id = b.slot_id
		JOIN parking_areas pa ON pa.id = ps.area_id
		WHERE b.id = $1
		AND b.status = 'Active'
		FOR UPDATE OF b`
	ab := &ActiveBooking{}
	err := tx.QueryRowContext(ctx, q, bookingID).Scan(
		&ab.ID, &ab.UserID, &ab.VehicleID, &ab.SlotID, &ab.EntryTime, &ab.HourlyRate,
	)
	if err != nil {
		return nil, err
	}
	return ab, nil
}

// StoreNow reads the exit clock from the database server, not the caller.
func (r *repo) StoreNow(ctx context.Context, tx *sql.Tx) (time.Time, error) {
	var t time.Time
	err := tx.QueryRowContext(ctx, `SELECT now()`).Scan(&t)
	return t, err
}

func (r *repo) WalletForUpdate(ctx context.Context, tx *sql.Tx, userID int64) (float64, error) {
	const q = `
		SELECT balance
		FROM wallets
		WHERE user_id = $1
		FOR UPDATE`
	var bal float64
	err := tx.QueryRowContext(ctx, q, userID).Scan(&bal)
	return bal, err
}

func (r *repo) UpdateWalletBalance(ctx context.Context, tx *sql.Tx, userID int64, newBalance float64) error {
	const q = `
		UPDATE wallets
		SET balance = $2
		WHERE user_id = $1`
	_, err := tx.ExecContext(ctx, q, userID, newBalance)
	return err
}

func (r *repo) CompleteBooking(ctx context.Context, tx *sql.Tx, bookingID int64, exitTime time.Time) error {
	const q = `
		UPDATE bookings
		SET exit_time = $2, status = 'Completed'
		WHERE id = $1`
	_, err := tx.ExecContext(ctx, q, bookingID, exitTime)
	return err
}

func (r *repo) InsertPayment(ctx context.Context, tx *sql.Tx, bookingID int64, amount float64, status model.PaymentStatus, transactionID string) error {
	const q = `
		INSERT INTO payments (booking_id, amount, status, transaction_id)
		VALUES ($1, $2, $3, $4)`
	_, err := tx.ExecContext(ctx, q, bookingID, amount, status, transactionID)
	return err
}

const historySelect = `
	SELECT b.id, v.vehicle_number, pa.area_name, ps.slot_number,
	       b.entry_time, b.exit_time, b.status,
	       p.amount, p.status AS payment_status, p.transaction_id
	FROM bookings b
	JOIN vehicles v ON v.id = b.vehicle_id
	JOIN parking_slots ps ON ps.id = b.slot_id
	JOIN parking_areas pa ON pa.id = ps.area_id
	LEFT JOIN payments p ON p.booking_id = b.id`

func (r *repo) ListByUser(ctx context.Context, userID int64) ([]HistoryRow, error) {
	q := historySelect + `
	WHERE b.user_id = $1
	ORDER BY b.entry_time DESC, b.id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	return scanHistory(rows)
}

func (r *repo) List(ctx context.Context, status model.BookingStatus) ([]HistoryRow, error) {
	q := historySelect
	args := []any{}
	if status != "" {
		q += `
	WHERE b.status = $1`
		args = append(args, status)
	}
	q += `
	ORDER BY b.entry_time DESC, b.id DESC`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return scanHistory(rows)
}

func scanHistory(rows *sql.Rows) ([]HistoryRow, error) {
	defer rows.Close()
	var out []HistoryRow
	for rows.Next() {
		var h HistoryRow
		if err := rows.Scan(
			&h.BookingID, &h.VehicleNumber, &h.AreaName, &h.SlotNumber,
			&h.EntryTime, &h.ExitTime, &h.Status,
			&h.Amount, &h.PaymentStatus, &h.TransactionID,
		); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
