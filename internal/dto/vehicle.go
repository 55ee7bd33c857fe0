package dto

import (
	"time"

	"github.com/SscSPs/campus_fare_ledger/internal/core/domain"
)

// VehicleActionRequest names the acting driver. Drivers may omit it; their token subject is used.
type VehicleActionRequest struct {
	DriverID string `json:"driverID"`
}

// VehicleResponse defines the data returned for a vehicle.
type VehicleResponse struct {
	VehicleID          string    `json:"vehicleID"`
	PlateNumber        string    `json:"plateNumber"`
	Status             string    `json:"status"`
	CurrentDriverID    string    `json:"currentDriverID,omitempty"`
	CurrentDriverLabel string    `json:"currentDriverLabel,omitempty"`
	LastUpdatedAt      time.Time `json:"lastUpdatedAt"`
}

// ListVehiclesResponse wraps a vehicle listing.
type ListVehiclesResponse struct {
	Vehicles []VehicleResponse `json:"vehicles"`
}

// ReleaseByDriverResponse reports which vehicle, if any, a logout released.
type ReleaseByDriverResponse struct {
	Released bool             `json:"released"`
	Vehicle  *VehicleResponse `json:"vehicle,omitempty"`
}

// ToVehicleResponse converts a domain.Vehicle to VehicleResponse DTO.
func ToVehicleResponse(v *domain.Vehicle) VehicleResponse {
	return VehicleResponse{
		VehicleID:          v.VehicleID,
		PlateNumber:        v.PlateNumber,
		Status:             string(v.Status),
		CurrentDriverID:    v.CurrentDriverID,
		CurrentDriverLabel: v.CurrentDriverLabel,
		LastUpdatedAt:      v.LastUpdatedAt,
	}
}

// ToListVehiclesResponse converts a slice of domain.Vehicle to ListVehiclesResponse DTO.
func ToListVehiclesResponse(vs []domain.Vehicle) ListVehiclesResponse {
	resp := ListVehiclesResponse{Vehicles: make([]VehicleResponse, len(vs))}
	for i := range vs {
		resp.Vehicles[i] = ToVehicleResponse(&vs[i])
	}
	return resp
}
