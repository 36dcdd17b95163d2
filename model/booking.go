package model

import "time"

type BookingStatus string

const (
	BookingActive    BookingStatus = "Active"
	BookingCompleted BookingStatus = "Completed"
	BookingCancelled BookingStatus = "Cancelled"
)

type Booking struct {
	ID        int64         `json:"id"`
	UserID    int64         `json:"user_id"`
	VehicleID int64         `json:"vehicle_id"`
	SlotID    int64         `json:"slot_id"`
	EntryTime time.Time     `json:"entry_time"`
	ExitTime  *time.Time    `json:"exit_time,omitempty"`
	Status    BookingStatus `json:"status"`
}

type CreateBookingReq struct {
	AreaID    int64 `json:"area_id" validate:"required,gt=0"`
	VehicleID int64 `json:"vehicle_id" validate:"required,gt=0"`
	SlotID    int64 `json:"slot_id" validate:"required,gt=0"`
}
