package vehiclerepo

import (
	"context"
	"database/sql"

	"github.com/PrajwalNandaragi/Smart-Parking-System/model"
)

type Repo interface {
	Insert(ctx context.Context, v *model.Vehicle) error
	ListByUser(ctx context.Context, userID int64) ([]model.Vehicle, error)
	Find(ctx context.Context, id int64) (*model.Vehicle, error)
	ActiveBookingCount(ctx context.Context, vehicleID int64) (int64, error)
	Delete(ctx context.Context, id int64) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) Insert(ctx context.Context, v *model.Vehicle) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO vehicles (user_id, vehicle_number, vehicle_type)
		VALUES ($1,$2,$3)
		RETURNING id, created_at`,
		v.UserID, v.Number, v.Type,
	).Scan(&v.ID, &v.CreatedAt)
}

func (r *repo) ListByUser(ctx context.Context, userID int64) ([]model.Vehicle, error) {
	const q = `
		SELECT id, user_id, vehicle_number, vehicle_type, created_at
		FROM vehicles
		WHERE user_id = $1
		ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Vehicle
	for rows.Next() {
		var v model.Vehicle
		if err := rows.Scan(&v.ID, &v.UserID, &v.Number, &v.Type, &v.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *repo) Find(ctx context.Context, id int64) (*model.Vehicle, error) {
	v := &model.Vehicle{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, vehicle_number, vehicle_type, created_at
		FROM vehicles
		WHERE id = $1`,
		id,
	).Scan(&v.ID, &v.UserID, &v.Number, &v.Type, &v.CreatedAt)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (r *repo) ActiveBookingCount(ctx context.Context, vehicleID int64) (int64, error) {
	const q = `
		SELECT COUNT(*)
		FROM bookings
		WHERE vehicle_id = $1
		AND status = 'Active'`
	var n int64
	err := r.db.QueryRowContext(ctx, q, vehicleID).Scan(&n)
	return n, err
}

func (r *repo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM vehicles WHERE id = $1`, id)
	return err
}
