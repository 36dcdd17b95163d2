package model

import "time"

type VehicleType string

const (
	VehicleBike  VehicleType = "Bike"
	VehicleCar   VehicleType = "Car"
	VehicleTruck VehicleType = "Truck"
	VehicleSUV   VehicleType = "SUV"
	VehicleOther VehicleType = "Other"
)

type Vehicle struct {
	ID        int64       `json:"id"`
	UserID    int64       `json:"user_id"`
	Number    string      `json:"vehicle_number"`
	Type      VehicleType `json:"vehicle_type"`
	CreatedAt time.Time   `json:"created_at"`
}

type AddVehicleReq struct {
	Number string      `json:"vehicle_number" validate:"required"`
	Type   VehicleType `json:"vehicle_type" validate:"omitempty,oneof=Bike Car Truck SUV Other"`
}
