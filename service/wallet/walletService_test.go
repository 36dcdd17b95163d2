// service/wallet/wallet_service_test.go
package walletsvc

import (
	"context"
	"database/sql"
	"testing"

	walletrepo "github.com/PrajwalNandaragi/Smart-Parking-System/repository/wallet"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	balanceFn          func(ctx context.Context, userID int64) (float64, error)
	balanceForUpdateFn func(ctx context.Context, tx *sql.Tx, userID int64) (float64, error)

	updates []float64
}

var _ walletrepo.Repo = (*mockRepo)(nil)

func (m *mockRepo) Balance(ctx context.Context, userID int64) (float64, error) {
	if m.balanceFn == nil {
		return 0, sql.ErrNoRows
	}
	return m.balanceFn(ctx, userID)
}

func (m *mockRepo) BalanceForUpdate(ctx context.Context, tx *sql.Tx, userID int64) (float64, error) {
	if m.balanceForUpdateFn == nil {
		return 0, sql.ErrNoRows
	}
	return m.balanceForUpdateFn(ctx, tx, userID)
}

func (m *mockRepo) UpdateBalance(ctx context.Context, tx *sql.Tx, userID int64, newBalance float64) error {
	m.updates = append(m.updates, newBalance)
	return nil
}

func (m *mockRepo) ListPayments(ctx context.Context, userID int64) ([]walletrepo.PaymentRow, error) {
	return nil, nil
}

func (m *mockRepo) ListAllPayments(ctx context.Context) ([]walletrepo.PaymentRow, error) {
	return nil, nil
}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mk, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mk
}

func TestRecharge_Success(t *testing.T) {
	ctx := context.Background()
	db, mk := newMockDB(t)
	mk.ExpectBegin()
	mk.ExpectCommit()

	m := &mockRepo{
		balanceForUpdateFn: func(ctx context.Context, tx *sql.Tx, userID int64) (float64, error) {
			return 120.50, nil
		},
	}
	svc := New(db, m, 10000)

	got, err := svc.Recharge(ctx, 5, 500)
	require.NoError(t, err)
	require.Equal(t, 620.50, got)
	require.Equal(t, []float64{620.50}, m.updates)
	require.NoError(t, mk.ExpectationsWereMet())
}

func TestRecharge_AmountBounds(t *testing.T) {
	ctx := context.Background()
	db, _ := newMockDB(t)
	svc := New(db, &mockRepo{}, 10000)

	for _, amount := range []float64{0, -5, 10000.01} {
		_, err := svc.Recharge(ctx, 5, amount)
		require.Error(t, err)
		require.Equal(t, ErrInvalidAmount, Code(err))
	}

	// the upper bound itself is allowed
	db2, mk2 := newMockDB(t)
	mk2.ExpectBegin()
	mk2.ExpectCommit()
	m := &mockRepo{
		balanceForUpdateFn: func(ctx context.Context, tx *sql.Tx, userID int64) (float64, error) {
			return 0, nil
		},
	}
	got, err := New(db2, m, 10000).Recharge(ctx, 5, 10000)
	require.NoError(t, err)
	require.Equal(t, 10000.0, got)
}

func TestRecharge_WalletMissing(t *testing.T) {
	ctx := context.Background()
	db, mk := newMockDB(t)
	mk.ExpectBegin()
	mk.ExpectRollback()

	svc := New(db, &mockRepo{}, 10000)

	_, err := svc.Recharge(ctx, 404, 100)
	require.Equal(t, ErrNotFound, Code(err))
	require.NoError(t, mk.ExpectationsWereMet())
}

func TestBalance_NotFound(t *testing.T) {
	ctx := context.Background()
	db, _ := newMockDB(t)
	svc := New(db, &mockRepo{}, 10000)

	_, err := svc.Balance(ctx, 404)
	require.Equal(t, ErrNotFound, Code(err))
}
