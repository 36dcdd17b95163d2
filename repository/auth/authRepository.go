package auth

import (
	"context"
	"database/sql"

	"github.com/PrajwalNandaragi/Smart-Parking-System/model"
)

type Repo interface {
	CreateUser(ctx context.Context, tx *sql.Tx, u *model.User) error
	CreateWallet(ctx context.Context, tx *sql.Tx, userID int64, balance float64) error
	ByEmail(ctx context.Context, email string) (*model.User, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) CreateUser(ctx context.Context, tx *sql.Tx, u *model.User) error {
	return tx.QueryRowContext(ctx, `
		INSERT INTO users(name, email, password_hash, role)
		VALUES ($1,$2,$3,$4)
		RETURNING id, created_at`,
		u.Name, u.Email, u.PasswordHash, u.Role,
	).Scan(&u.ID, &u.CreatedAt)
}

func (r *repo) CreateWallet(ctx context.Context, tx *sql.Tx, userID int64, balance float64) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO wallets(user_id, balance)
		VALUES ($1,$2)`,
		userID, balance,
	)
	return err
}

func (r *repo) ByEmail(ctx context.Context, email string) (*model.User, error) {
	u := &model.User{}
	err := r.db.QueryRowContext(ctx, `
        SELECT id, name, email, password_hash, role, created_at
        FROM users
        WHERE lower(email) = lower($1)`,
		email,
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}
