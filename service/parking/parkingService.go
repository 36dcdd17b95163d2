package parkingsvc

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/PrajwalNandaragi/Smart-Parking-System/model"
	parkingrepo "github.com/PrajwalNandaragi/Smart-Parking-System/repository/parking"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// errors used by controllers

type ErrCode string

const (
	ErrValidation    ErrCode = "VALIDATION"
	ErrNotFound      ErrCode = "NOT_FOUND"
	ErrSlotTaken     ErrCode = "SLOT_TAKEN"
	ErrHasDependents ErrCode = "HAS_DEPENDENTS"
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

type AreaSummary = parkingrepo.AreaSummary
type SlotRow = parkingrepo.SlotRow

type Service interface {
	CreateArea(ctx context.Context, req model.AreaReq) (int64, error)
	UpdateArea(ctx context.Context, id int64, req model.AreaReq) error
	ListAreas(ctx context.Context) ([]AreaSummary, error)
	DeleteArea(ctx context.Context, id int64) error

	CreateSlot(ctx context.Context, req model.SlotReq) (int64, error)
	UpdateSlot(ctx context.Context, id int64, number string, status model.SlotStatus) error
	ListSlots(ctx context.Context, areaID int64) ([]SlotRow, error)
	AvailableSlots(ctx context.Context, areaID int64) ([]model.ParkingSlot, error)
	DeleteSlot(ctx context.Context, id int64) error
}

type service struct{ r parkingrepo.Repo }

func New(r parkingrepo.Repo) Service { return &service{r: r} }

// Areas

func (s *service) CreateArea(ctx context.Context, req model.AreaReq) (int64, error) {
	name := strings.TrimSpace(req.Name)
	location := strings.TrimSpace(req.Location)
	if name == "" || location == "" || req.HourlyRate <= 0 {
		return 0, makeErr(ErrValidation)
	}
	return s.r.CreateArea(ctx, name, location, req.HourlyRate)
}

func (s *service) UpdateArea(ctx context.Context, id int64, req model.AreaReq) error {
	name := strings.TrimSpace(req.Name)
	location := strings.TrimSpace(req.Location)
	if name == "" || location == "" || req.HourlyRate <= 0 {
		return makeErr(ErrValidation)
	}
	ok, err := s.r.UpdateArea(ctx, id, name, location, req.HourlyRate)
	if err != nil {
		return err
	}
	if !ok {
		return makeErr(ErrNotFound)
	}
	return nil
}

func (s *service) ListAreas(ctx context.Context) ([]AreaSummary, error) {
	return s.r.ListAreas(ctx)
}

// DeleteArea refuses while the area still owns slots.
func (s *service) DeleteArea(ctx context.Context, id int64) error {
	n, err := s.r.SlotCount(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return makeErr(ErrHasDependents)
	}
	ok, err := s.r.DeleteArea(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return makeErr(ErrNotFound)
	}
	return nil
}

// Slots

func (s *service) CreateSlot(ctx context.Context, req model.SlotReq) (int64, error) {
	number := strings.ToUpper(strings.TrimSpace(req.Number))
	if number == "" || req.AreaID <= 0 {
		return 0, makeErr(ErrValidation)
	}
	status := req.Status
	if status == "" {
		status = model.SlotAvailable
	}

	if _, err := s.r.FindArea(ctx, req.AreaID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, makeErr(ErrNotFound)
		}
		return 0, err
	}

	id, err := s.r.CreateSlot(ctx, req.AreaID, number, status)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return 0, makeErr(ErrSlotTaken)
		}
		return 0, err
	}
	return id, nil
}

func (s *service) UpdateSlot(ctx context.Context, id int64, number string, status model.SlotStatus) error {
	number = strings.ToUpper(strings.TrimSpace(number))
	if number == "" {
		return makeErr(ErrValidation)
	}
	switch status {
	case model.SlotAvailable, model.SlotOccupied, model.SlotMaintenance:
	default:
		return makeErr(ErrValidation)
	}
	ok, err := s.r.UpdateSlot(ctx, id, number, status)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return makeErr(ErrSlotTaken)
		}
		return err
	}
	if !ok {
		return makeErr(ErrNotFound)
	}
	return nil
}

func (s *service) ListSlots(ctx context.Context, areaID int64) ([]SlotRow, error) {
	return s.r.ListSlots(ctx, areaID)
}

func (s *service) AvailableSlots(ctx context.Context, areaID int64) ([]model.ParkingSlot, error) {
	return s.r.ListAvailableSlots(ctx, areaID)
}

// DeleteSlot refuses while an Active booking references the slot.
func (s *service) DeleteSlot(ctx context.Context, id int64) error {
	n, err := s.r.ActiveBookingCount(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return makeErr(ErrHasDependents)
	}
	ok, err := s.r.DeleteSlot(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return makeErr(ErrNotFound)
	}
	return nil
}
