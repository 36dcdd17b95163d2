package vehiclesvc

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/PrajwalNandaragi/Smart-Parking-System/model"
	vehiclerepo "github.com/PrajwalNandaragi/Smart-Parking-System/repository/vehicle"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// errors used by controllers

type ErrCode string

const (
	ErrVehicleTaken  ErrCode = "VEHICLE_TAKEN"
	ErrNotFound      ErrCode = "NOT_FOUND"
	ErrNotOwner      ErrCode = "NOT_OWNER"
	ErrHasDependents ErrCode = "HAS_DEPENDENTS"
	ErrBadInput      ErrCode = "BAD_INPUT"
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

type Service interface {
	Add(ctx context.Context, userID int64, number string, vtype model.VehicleType) (*model.Vehicle, error)
	ListMine(ctx context.Context, userID int64) ([]model.Vehicle, error)
	Delete(ctx context.Context, userID, vehicleID int64) error
}

type service struct{ r vehiclerepo.Repo }

func New(r vehiclerepo.Repo) Service { return &service{r: r} }

// Add registers a vehicle. Numbers are stored uppercased and are unique
// across all users.
func (s *service) Add(ctx context.Context, userID int64, number string, vtype model.VehicleType) (*model.Vehicle, error) {
	number = strings.ToUpper(strings.TrimSpace(number))
	if number == "" {
		return nil, makeErr(ErrBadInput)
	}
	if vtype == "" {
		vtype = model.VehicleCar
	}

	v := &model.Vehicle{UserID: userID, Number: number, Type: vtype}
	if err := s.r.Insert(ctx, v); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, makeErr(ErrVehicleTaken)
		}
		return nil, err
	}
	return v, nil
}

func (s *service) ListMine(ctx context.Context, userID int64) ([]model.Vehicle, error) {
	return s.r.ListByUser(ctx, userID)
}

// Delete removes a vehicle, refusing while it has an Active booking.
func (s *service) Delete(ctx context.Context, userID, vehicleID int64) error {
	v, err := s.r.Find(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrNotFound)
		}
		return err
	}
	if v.UserID != userID {
		return makeErr(ErrNotOwner)
	}
	n, err := s.r.ActiveBookingCount(ctx, vehicleID)
	if err != nil {
		return err
	}
	if n > 0 {
		return makeErr(ErrHasDependents)
	}
	return s.r.Delete(ctx, vehicleID)
}
