// repository/booking/booking_repository_test.go
package bookingrepo

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/PrajwalNandaragi/Smart-Parking-System/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mk, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mk
}

func TestLockAvailableSlot_RaceLostIsNoRows(t *testing.T) {
	ctx := context.Background()
	db, mk := newMockDB(t)
	mk.ExpectBegin()
	mk.ExpectQuery("SELECT id").
		WithArgs(int64(11), int64(2)).
		WillReturnError(sql.ErrNoRows)
	mk.ExpectRollback()

	r := New(db)
	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer tx.Rollback()

	err = r.LockAvailableSlot(ctx, tx, 11, 2)
	require.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestListByUser_ScansNullablePaymentFields(t *testing.T) {
	ctx := context.Background()
	db, mk := newMockDB(t)

	entry := time.Date(2025, 1, 14, 9, 0, 0, 0, time.UTC)
	exit := entry.Add(3 * time.Hour)
	amount := 60.0
	payStatus := "SUCCESS"
	txn := "TXN202501141200000042"

	cols := []string{
		"id", "vehicle_number", "area_name", "slot_number",
		"entry_time", "exit_time", "status",
		"amount", "payment_status", "transaction_id",
	}
	mk.ExpectQuery("SELECT b.id").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(int64(78), "KA01AB1234", "North", "A2", entry, nil, "Active", nil, nil, nil).
			AddRow(int64(77), "KA01AB1234", "North", "A1", entry, exit, "Completed", amount, payStatus, txn))

	rows, err := New(db).ListByUser(ctx, 5)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	active := rows[0]
	require.Equal(t, model.BookingActive, active.Status)
	require.Nil(t, active.ExitTime)
	require.Nil(t, active.Amount)
	require.Nil(t, active.PaymentStatus)

	done := rows[1]
	require.Equal(t, model.BookingCompleted, done.Status)
	require.NotNil(t, done.ExitTime)
	require.Equal(t, exit, *done.ExitTime)
	require.Equal(t, amount, *done.Amount)
	require.Equal(t, payStatus, *done.PaymentStatus)
	require.Equal(t, txn, *done.TransactionID)
	require.NoError(t, mk.ExpectationsWereMet())
}

func TestStoreNow_UsesDatabaseClock(t *testing.T) {
	ctx := context.Background()
	db, mk := newMockDB(t)

	now := time.Date(2025, 1, 14, 12, 0, 0, 0, time.UTC)
	mk.ExpectBegin()
	mk.ExpectQuery("SELECT now").
		WillReturnRows(sqlmock.NewRows([]string{"now"}).AddRow(now))
	mk.ExpectRollback()

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer tx.Rollback()

	got, err := New(db).StoreNow(ctx, tx)
	require.NoError(t, err)
	require.Equal(t, now, got)
}
