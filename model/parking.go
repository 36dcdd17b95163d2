package model

import "time"

type SlotStatus string

const (
	SlotAvailable   SlotStatus = "Available"
	SlotOccupied    SlotStatus = "Occupied"
	SlotMaintenance SlotStatus = "Maintenance"
)

type ParkingArea struct {
	ID         int64     `json:"id"`
	Name       string    `json:"area_name"`
	Location   string    `json:"location"`
	HourlyRate float64   `json:"hourly_rate"`
	CreatedAt  time.Time `json:"created_at"`
}

type ParkingSlot struct {
	ID        int64      `json:"id"`
	AreaID    int64      `json:"area_id"`
	Number    string     `json:"slot_number"`
	Status    SlotStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
}

type AreaReq struct {
	Name       string  `json:"area_name" validate:"required"`
	Location   string  `json:"location" validate:"required"`
	HourlyRate float64 `json:"hourly_rate" validate:"required,gt=0"`
}

type SlotReq struct {
	AreaID int64      `json:"area_id" validate:"required,gt=0"`
	Number string     `json:"slot_number" validate:"required"`
	Status SlotStatus `json:"status" validate:"omitempty,oneof=Available Occupied Maintenance"`
}
