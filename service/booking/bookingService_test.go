// service/booking/booking_service_test.go
package bookingsvc

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/PrajwalNandaragi/Smart-Parking-System/model"
	bookingrepo "github.com/PrajwalNandaragi/Smart-Parking-System/repository/booking"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	vehicleOwnerFn      func(ctx context.Context, vehicleID int64) (int64, error)
	lockAvailableSlotFn func(ctx context.Context, tx *sql.Tx, slotID, areaID int64) error
	insertBookingFn     func(ctx context.Context, tx *sql.Tx, userID, vehicleID, slotID int64) (int64, time.Time, error)
	lockActiveBookingFn func(ctx context.Context, tx *sql.Tx, bookingID int64) (*bookingrepo.ActiveBooking, error)
	storeNowFn          func(ctx context.Context, tx *sql.Tx) (time.Time, error)
	walletForUpdateFn   func(ctx context.Context, tx *sql.Tx, userID int64) (float64, error)

	slotStatuses   []model.SlotStatus
	walletUpdates  []float64
	completedAt    []time.Time
	payments       []paymentCall
	lockActiveN    int
	walletUpdatedN int
}

type paymentCall struct {
	bookingID int64
	amount    float64
	status    model.PaymentStatus
	txnID     string
}

var _ bookingrepo.Repo = (*mockRepo)(nil)

func (m *mockRepo) VehicleOwner(ctx context.Context, vehicleID int64) (int64, error) {
	if m.vehicleOwnerFn == nil {
		return 0, sql.ErrNoRows
	}
	return m.vehicleOwnerFn(ctx, vehicleID)
}

func (m *mockRepo) LockAvailableSlot(ctx context.Context, tx *sql.Tx, slotID, areaID int64) error {
	if m.lockAvailableSlotFn == nil {
		return nil
	}
	return m.lockAvailableSlotFn(ctx, tx, slotID, areaID)
}

func (m *mockRepo) InsertBooking(ctx context.Context, tx *sql.Tx, userID, vehicleID, slotID int64) (int64, time.Time, error) {
	if m.insertBookingFn == nil {
		return 0, time.Time{}, errors.New("unexpected InsertBooking")
	}
	return m.insertBookingFn(ctx, tx, userID, vehicleID, slotID)
}

func (m *mockRepo) SetSlotStatus(ctx context.Context, tx *sql.Tx, slotID int64, status model.SlotStatus) error {
	m.slotStatuses = append(m.slotStatuses, status)
	return nil
}

func (m *mockRepo) LockActiveBooking(ctx context.Context, tx *sql.Tx, bookingID int64) (*bookingrepo.ActiveBooking, error) {
	m.lockActiveN++
	if m.lockActiveBookingFn == nil {
		return nil, sql.ErrNoRows
	}
	return m.lockActiveBookingFn(ctx, tx, bookingID)
}

func (m *mockRepo) StoreNow(ctx context.Context, tx *sql.Tx) (time.Time, error) {
	if m.storeNowFn == nil {
		return time.Time{}, errors.New("unexpected StoreNow")
	}
	return m.storeNowFn(ctx, tx)
}

func (m *mockRepo) WalletForUpdate(ctx context.Context, tx *sql.Tx, userID int64) (float64, error) {
	if m.walletForUpdateFn == nil {
		return 0, sql.ErrNoRows
	}
	return m.walletForUpdateFn(ctx, tx, userID)
}

func (m *mockRepo) UpdateWalletBalance(ctx context.Context, tx *sql.Tx, userID int64, newBalance float64) error {
	m.walletUpdatedN++
	m.walletUpdates = append(m.walletUpdates, newBalance)
	return nil
}

func (m *mockRepo) CompleteBooking(ctx context.Context, tx *sql.Tx, bookingID int64, exitTime time.Time) error {
	m.completedAt = append(m.completedAt, exitTime)
	return nil
}

func (m *mockRepo) InsertPayment(ctx context.Context, tx *sql.Tx, bookingID int64, amount float64, status model.PaymentStatus, transactionID string) error {
	m.payments = append(m.payments, paymentCall{bookingID: bookingID, amount: amount, status: status, txnID: transactionID})
	return nil
}

func (m *mockRepo) ListByUser(ctx context.Context, userID int64) ([]bookingrepo.HistoryRow, error) {
	return nil, nil
}

func (m *mockRepo) List(ctx context.Context, status model.BookingStatus) ([]bookingrepo.HistoryRow, error) {
	return nil, nil
}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mk, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mk
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- billing math ---

func TestBilledHours(t *testing.T) {
	entry := time.Date(2025, 1, 14, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		elapsed time.Duration
		want    int64
	}{
		{"one minute", time.Minute, 1},
		{"just under an hour", 59 * time.Minute, 1},
		{"exactly one hour", time.Hour, 1},
		{"one hour one second", time.Hour + time.Second, 2},
		{"two and a half hours", 2*time.Hour + 30*time.Minute, 3},
		{"exactly three hours", 3 * time.Hour, 3},
		{"zero elapsed", 0, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, billedHours(entry, entry.Add(tc.elapsed)))
		})
	}
}

func TestNewTransactionID_Format(t *testing.T) {
	fixed := time.Date(2025, 1, 14, 9, 30, 42, 0, time.UTC)
	s := &service{now: func() time.Time { return fixed }}

	id := s.newTransactionID()
	require.Len(t, id, 21)
	require.True(t, strings.HasPrefix(id, "TXN20250114093042"))
}

// --- booking creation ---

func TestCreate_Success(t *testing.T) {
	ctx := context.Background()
	db, mk := newMockDB(t)
	mk.ExpectBegin()
	mk.ExpectCommit()

	entry := time.Date(2025, 1, 14, 9, 0, 0, 0, time.UTC)
	m := &mockRepo{
		vehicleOwnerFn: func(ctx context.Context, vehicleID int64) (int64, error) { return 5, nil },
		lockAvailableSlotFn: func(ctx context.Context, tx *sql.Tx, slotID, areaID int64) error {
			require.Equal(t, int64(11), slotID)
			require.Equal(t, int64(2), areaID)
			return nil
		},
		insertBookingFn: func(ctx context.Context, tx *sql.Tx, userID, vehicleID, slotID int64) (int64, time.Time, error) {
			return 77, entry, nil
		},
	}
	svc := New(db, m, discardLogger())

	b, err := svc.Create(ctx, 5, 9, 11, 2)
	require.NoError(t, err)
	require.Equal(t, int64(77), b.ID)
	require.Equal(t, model.BookingActive, b.Status)
	require.Equal(t, entry, b.EntryTime)
	require.Equal(t, []model.SlotStatus{model.SlotOccupied}, m.slotStatuses)
	require.NoError(t, mk.ExpectationsWereMet())
}

func TestCreate_SlotRaceLost(t *testing.T) {
	ctx := context.Background()
	db, mk := newMockDB(t)
	mk.ExpectBegin()
	mk.ExpectRollback()

	m := &mockRepo{
		vehicleOwnerFn: func(ctx context.Context, vehicleID int64) (int64, error) { return 5, nil },
		lockAvailableSlotFn: func(ctx context.Context, tx *sql.Tx, slotID, areaID int64) error {
			return sql.ErrNoRows
		},
	}
	svc := New(db, m, discardLogger())

	_, err := svc.Create(ctx, 5, 9, 11, 2)
	require.Error(t, err)
	require.Equal(t, ErrSlotUnavailable, Code(err))
	require.Empty(t, m.slotStatuses)
	require.NoError(t, mk.ExpectationsWereMet())
}

func TestCreate_VehicleNotFound(t *testing.T) {
	ctx := context.Background()
	db, mk := newMockDB(t)

	m := &mockRepo{
		vehicleOwnerFn: func(ctx context.Context, vehicleID int64) (int64, error) {
			return 0, sql.ErrNoRows
		},
	}
	svc := New(db, m, discardLogger())

	_, err := svc.Create(ctx, 5, 9, 11, 2)
	require.Equal(t, ErrNotFound, Code(err))
	require.NoError(t, mk.ExpectationsWereMet())
}

func TestCreate_NotOwner(t *testing.T) {
	ctx := context.Background()
	db, mk := newMockDB(t)

	m := &mockRepo{
		vehicleOwnerFn: func(ctx context.Context, vehicleID int64) (int64, error) { return 42, nil },
	}
	svc := New(db, m, discardLogger())

	_, err := svc.Create(ctx, 5, 9, 11, 2)
	require.Equal(t, ErrNotOwner, Code(err))
	require.NoError(t, mk.ExpectationsWereMet())
}

// --- exit & billing ---

func exitFixture(balance float64) *mockRepo {
	entry := time.Date(2025, 1, 14, 9, 0, 0, 0, time.UTC)
	exit := entry.Add(2*time.Hour + 30*time.Minute)
	return &mockRepo{
		lockActiveBookingFn: func(ctx context.Context, tx *sql.Tx, bookingID int64) (*bookingrepo.ActiveBooking, error) {
			return &bookingrepo.ActiveBooking{
				ID: bookingID, UserID: 5, VehicleID: 9, SlotID: 11,
				EntryTime: entry, HourlyRate: 20,
			}, nil
		},
		storeNowFn: func(ctx context.Context, tx *sql.Tx) (time.Time, error) { return exit, nil },
		walletForUpdateFn: func(ctx context.Context, tx *sql.Tx, userID int64) (float64, error) {
			return balance, nil
		},
	}
}

func TestExit_Success(t *testing.T) {
	ctx := context.Background()
	db, mk := newMockDB(t)
	mk.ExpectBegin()
	mk.ExpectCommit()

	// 2h30m at rate 20 bills 3 hours = 60
	m := exitFixture(100)
	svc := New(db, m, discardLogger())

	res, err := svc.ProcessExit(ctx, 5, 77)
	require.NoError(t, err)
	require.Equal(t, int64(77), res.BookingID)
	require.Equal(t, int64(3), res.BilledHours)
	require.Equal(t, 60.0, res.Amount)
	require.Equal(t, 40.0, res.NewBalance)
	require.True(t, strings.HasPrefix(res.TransactionID, "TXN"))

	require.Equal(t, []float64{40}, m.walletUpdates)
	require.Equal(t, []model.SlotStatus{model.SlotAvailable}, m.slotStatuses)
	require.Len(t, m.payments, 1)
	require.Equal(t, model.PaymentSuccess, m.payments[0].status)
	require.Equal(t, 60.0, m.payments[0].amount)
	require.Equal(t, res.TransactionID, m.payments[0].txnID)
	require.NoError(t, mk.ExpectationsWereMet())
}

func TestExit_InsufficientBalance(t *testing.T) {
	ctx := context.Background()
	db, mk := newMockDB(t)
	mk.ExpectBegin()
	mk.ExpectRollback()
	mk.ExpectBegin()
	mk.ExpectCommit()

	// balance 10 cannot cover the 60 fare
	m := exitFixture(10)
	svc := New(db, m, discardLogger())

	_, err := svc.ProcessExit(ctx, 5, 77)
	require.Error(t, err)
	require.Equal(t, ErrInsufficientBalance, Code(err))

	var ib *InsufficientBalanceError
	require.ErrorAs(t, err, &ib)
	require.Equal(t, 60.0, ib.Amount)
	require.Equal(t, 10.0, ib.Balance)
	require.Equal(t, 50.0, ib.Shortfall())

	// booking force-completed, slot freed, payment FAILED, wallet untouched
	require.Zero(t, m.walletUpdatedN)
	require.Len(t, m.completedAt, 1)
	require.Equal(t, []model.SlotStatus{model.SlotAvailable}, m.slotStatuses)
	require.Len(t, m.payments, 1)
	require.Equal(t, model.PaymentFailed, m.payments[0].status)
	require.Equal(t, 60.0, m.payments[0].amount)
	require.Equal(t, 2, m.lockActiveN)
	require.NoError(t, mk.ExpectationsWereMet())
}

func TestExit_InsufficientBalance_ForceCompleteFails(t *testing.T) {
	ctx := context.Background()
	db, mk := newMockDB(t)
	mk.ExpectBegin()
	mk.ExpectRollback()
	mk.ExpectBegin()
	mk.ExpectRollback()

	m := exitFixture(10)
	base := m.lockActiveBookingFn
	m.lockActiveBookingFn = func(ctx context.Context, tx *sql.Tx, bookingID int64) (*bookingrepo.ActiveBooking, error) {
		if m.lockActiveN > 1 {
			return nil, errors.New("db down")
		}
		return base(ctx, tx, bookingID)
	}
	svc := New(db, m, discardLogger())

	// the caller still sees the balance error; the booking stays Active
	_, err := svc.ProcessExit(ctx, 5, 77)
	require.Equal(t, ErrInsufficientBalance, Code(err))
	require.Empty(t, m.completedAt)
	require.Empty(t, m.payments)
	require.NoError(t, mk.ExpectationsWereMet())
}

func TestExit_NoActiveBooking(t *testing.T) {
	ctx := context.Background()
	db, mk := newMockDB(t)
	mk.ExpectBegin()
	mk.ExpectRollback()

	m := &mockRepo{}
	svc := New(db, m, discardLogger())

	_, err := svc.ProcessExit(ctx, 5, 404)
	require.Equal(t, ErrNotFound, Code(err))
	require.NoError(t, mk.ExpectationsWereMet())
}

func TestExit_NotOwner(t *testing.T) {
	ctx := context.Background()
	db, mk := newMockDB(t)
	mk.ExpectBegin()
	mk.ExpectRollback()

	m := exitFixture(100)
	svc := New(db, m, discardLogger())

	_, err := svc.ProcessExit(ctx, 999, 77)
	require.Equal(t, ErrNotOwner, Code(err))
	require.Empty(t, m.payments)
	require.NoError(t, mk.ExpectationsWereMet())
}

func TestHistory_RejectsUnknownStatus(t *testing.T) {
	ctx := context.Background()
	db, _ := newMockDB(t)
	svc := New(db, &mockRepo{}, discardLogger())

	_, err := svc.History(ctx, model.BookingStatus("Bogus"))
	require.Equal(t, ErrNotFound, Code(err))

	_, err = svc.History(ctx, model.BookingActive)
	require.NoError(t, err)
}
