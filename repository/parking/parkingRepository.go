package parkingrepo

import (
	"context"
	"database/sql"

	"github.com/PrajwalNandaragi/Smart-Parking-System/model"
)

// AreaSummary is an area row joined with its slot occupancy counts,
// as rendered on the area listing.
type AreaSummary struct {
	ID             int64   `json:"id"`
	Name           string  `json:"area_name"`
	Location       string  `json:"location"`
	HourlyRate     float64 `json:"hourly_rate"`
	TotalSlots     int64   `json:"total_slots"`
	AvailableSlots int64   `json:"available_slots"`
	OccupiedSlots  int64   `json:"occupied_slots"`
}

// SlotRow is a slot row with the count of Active bookings referencing it.
type SlotRow struct {
	ID             int64            `json:"id"`
	AreaID         int64            `json:"area_id"`
	Number         string           `json:"slot_number"`
	Status         model.SlotStatus `json:"status"`
	ActiveBookings int64            `json:"active_bookings"`
}

type Repo interface {
	CreateArea(ctx context.Context, name, location string, hourlyRate float64) (int64, error)
	UpdateArea(ctx context.Context, id int64, name, location string, hourlyRate float64) (bool, error)
	FindArea(ctx context.Context, id int64) (*model.ParkingArea, error)
	ListAreas(ctx context.Context) ([]AreaSummary, error)
	SlotCount(ctx context.Context, areaID int64) (int64, error)
	DeleteArea(ctx context.Context, id int64) (bool, error)

	CreateSlot(ctx context.Context, areaID int64, number string, status model.SlotStatus) (int64, error)
	UpdateSlot(ctx context.Context, id int64, number string, status model.SlotStatus) (bool, error)
	FindSlot(ctx context.Context, id int64) (*model.ParkingSlot, error)
	ListSlots(ctx context.Context, areaID int64) ([]SlotRow, error)
	ListAvailableSlots(ctx context.Context, areaID int64) ([]model.ParkingSlot, error)
	ActiveBookingCount(ctx context.Context, slotID int64) (int64, error)
	DeleteSlot(ctx context.Context, id int64) (bool, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

// Areas

func (r *repo) CreateArea(ctx context.Context, name, location string, hourlyRate float64) (int64, error) {
	const q = `
		INSERT INTO parking_areas (area_name, location, hourly_rate)
		VALUES ($1,$2,$3)
		RETURNING id`
	var id int64
	if err := r.db.QueryRowContext(ctx, q, name, location, hourlyRate).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repo) UpdateArea(ctx context.Context, id int64, name, location string, hourlyRate float64) (bool, error) {
	const q = `
		UPDATE parking_areas
		SET area_name = $2, location = $3, hourly_rate = $4
		WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id, name, location, hourlyRate)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *repo) FindArea(ctx context.Context, id int64) (*model.ParkingArea, error) {
	a := &model.ParkingArea{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, area_name, location, hourly_rate, created_at
		FROM parking_areas
		WHERE id = $1`,
		id,
	).Scan(&a.ID, &a.Name, &a.Location, &a.HourlyRate, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *repo) ListAreas(ctx context.Context) ([]AreaSummary, error) {
	const q = `
		SELECT pa.id, pa.area_name, pa.location, pa.hourly_rate,
		       COUNT(ps.id) AS total_slots,
		       COUNT(ps.id) FILTER (WHERE ps.status = 'Available') AS available_slots,
		       COUNT(ps.id) FILTER (WHERE ps.status = 'Occupied') AS occupied_slots
		FROM parking_areas pa
		LEFT JOIN parking_slots ps ON ps.area_id = pa.id
		GROUP BY pa.id
		ORDER BY pa.area_name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AreaSummary
	for rows.Next() {
		var a AreaSummary
		if err := rows.Scan(&a.ID, &a.Name, &a.Location, &a.HourlyRate,
			&a.TotalSlots, &a.AvailableSlots, &a.OccupiedSlots); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *repo) SlotCount(ctx context.Context, areaID int64) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM parking_slots WHERE area_id = $1`, areaID,
	).Scan(&n)
	return n, err
}

func (r *repo) DeleteArea(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM parking_areas WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// Slots

func (r *repo) CreateSlot(ctx context.Context, areaID int64, number string, status model.SlotStatus) (int64, error) {
	const q = `
		INSERT INTO parking_slots (area_id, slot_number, status)
		VALUES ($1,$2,$3)
		RETURNING id`
	var id int64
	if err := r.db.QueryRowContext(ctx, q, areaID, number, status).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repo) UpdateSlot(ctx context.Context, id int64, number string, status model.SlotStatus) (bool, error) {
	const q = `
		UPDATE parking_slots
		SET slot_number = $2, status = $3
		WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id, number, status)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *repo) FindSlot(ctx context.Context, id int64) (*model.ParkingSlot, error) {
	s := &model.ParkingSlot{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, area_id, slot_number, status, created_at
		FROM parking_slots
		WHERE id = $1`,
		id,
	).Scan(&s.ID, &s.AreaID, &s.Number, &s.Status, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *repo) ListSlots(ctx context.Context, areaID int64) ([]SlotRow, error) {
	const q = `
		SELECT ps.id, ps.area_id, ps.slot_number, ps.status,
		       COUNT(b.id) FILTER (WHERE b.status = 'Active') AS active_bookings
		FROM parking_slots ps
		LEFT JOIN bookings b ON b.slot_id = ps.id
		WHERE ps.area_id = $1
		GROUP BY ps.id
		ORDER BY ps.slot_number`
	rows, err := r.db.QueryContext(ctx, q, areaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SlotRow
	for rows.Next() {
		var s SlotRow
		if err := rows.Scan(&s.ID, &s.AreaID, &s.Number, &s.Status, &s.ActiveBookings); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *repo) ListAvailableSlots(ctx context.Context, areaID int64) ([]model.ParkingSlot, error) {
	const q = `
		SELECT id, area_id, slot_number, status, created_at
		FROM parking_slots
		WHERE area_id = $1 AND status = 'Available'
		ORDER BY slot_number`
	rows, err := r.db.QueryContext(ctx, q, areaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ParkingSlot
	for rows.Next() {
		var s model.ParkingSlot
		if err := rows.Scan(&s.ID, &s.AreaID, &s.Number, &s.Status, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *repo) ActiveBookingCount(ctx context.Context, slotID int64) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM bookings
		WHERE slot_id = $1
		AND status = 'Active'`,
		slotID,
	).Scan(&n)
	return n, err
}

func (r *repo) DeleteSlot(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM parking_slots WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
