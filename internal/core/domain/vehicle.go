package domain

import (
	"fmt"

	"github.com/SscSPs/campus_fare_ledger/internal/apperrors"
)

// VehicleStatus is the possession state of a shuttle.
type VehicleStatus string

const (
	VehicleAvailable   VehicleStatus = "AVAILABLE"
	VehicleReserved    VehicleStatus = "RESERVED"
	VehicleInUse       VehicleStatus = "IN_USE"
	VehicleUnavailable VehicleStatus = "UNAVAILABLE"
)

func (s VehicleStatus) Valid() bool {
	switch s {
	case VehicleAvailable, VehicleReserved, VehicleInUse, VehicleUnavailable:
		return true
	}
	return false
}

// Held reports whether s binds the vehicle to a driver.
func (s VehicleStatus) Held() bool {
	return s == VehicleReserved || s == VehicleInUse
}

// Vehicle is a shuttle. Version increments on every persisted transition and guards
// compare-and-swap updates.
type Vehicle struct {
	VehicleID          string        `json:"vehicleID"`
	PlateNumber        string        `json:"plateNumber"`
	Status             VehicleStatus `json:"status"`
	CurrentDriverID    string        `json:"currentDriverID,omitempty"`
	CurrentDriverLabel string        `json:"currentDriverLabel,omitempty"`
	Version            int64         `json:"version"`
	AuditFields
}

// Validate checks that a driver is recorded exactly when the status holds the vehicle.
func (v Vehicle) Validate() error {
	switch {
	case !v.Status.Valid():
		return fmt.Errorf("%w: vehicle %s has status %q", apperrors.ErrValidation, v.VehicleID, v.Status)
	case v.Status.Held() && v.CurrentDriverID == "":
		return fmt.Errorf("%w: vehicle %s is %s without a driver", apperrors.ErrValidation, v.VehicleID, v.Status)
	case !v.Status.Held() && v.CurrentDriverID != "":
		return fmt.Errorf("%w: vehicle %s is %s but names driver %s", apperrors.ErrValidation, v.VehicleID, v.Status, v.CurrentDriverID)
	}
	return nil
}

// The transition methods below are pure. Each returns the next state and whether it differs
// from v; an unchanged result is an idempotent success.

// Reserve binds v to driverID.
func (v Vehicle) Reserve(driverID, driverLabel string) (Vehicle, bool, error) {
	if v.Status.Held() && v.CurrentDriverID == driverID {
		return v, false, nil
	}
	if v.Status != VehicleAvailable {
		return v, false, v.unavailableErr()
	}
	next := v
	next.Status = VehicleReserved
	next.CurrentDriverID = driverID
	next.CurrentDriverLabel = driverLabel
	return next, true, nil
}

// BeginTrip moves a reservation held by driverID to IN_USE.
func (v Vehicle) BeginTrip(driverID string) (Vehicle, bool, error) {
	if !v.Status.Held() || v.CurrentDriverID != driverID {
		return v, false, v.notAssignedErr(driverID)
	}
	if v.Status == VehicleInUse {
		return v, false, nil
	}
	next := v
	next.Status = VehicleInUse
	return next, true, nil
}

// Release frees v. An empty driverID skips the holder check.
func (v Vehicle) Release(driverID string) (Vehicle, bool, error) {
	if !v.Status.Held() {
		return v, false, nil
	}
	if driverID != "" && v.CurrentDriverID != driverID {
		return v, false, v.notAssignedErr(driverID)
	}
	next := v
	next.Status = VehicleAvailable
	next.CurrentDriverID = ""
	next.CurrentDriverLabel = ""
	return next, true, nil
}

// MarkUnavailable takes an idle vehicle out of service.
func (v Vehicle) MarkUnavailable() (Vehicle, bool, error) {
	switch v.Status {
	case VehicleUnavailable:
		return v, false, nil
	case VehicleAvailable:
		next := v
		next.Status = VehicleUnavailable
		return next, true, nil
	}
	return v, false, v.unavailableErr()
}

// MarkAvailable returns an out-of-service vehicle to the pool.
func (v Vehicle) MarkAvailable() (Vehicle, bool, error) {
	switch v.Status {
	case VehicleAvailable:
		return v, false, nil
	case VehicleUnavailable:
		next := v
		next.Status = VehicleAvailable
		return next, true, nil
	}
	return v, false, v.unavailableErr()
}

func (v Vehicle) holder() string {
	if v.CurrentDriverLabel != "" {
		return fmt.Sprintf("%s (%s)", v.CurrentDriverID, v.CurrentDriverLabel)
	}
	return v.CurrentDriverID
}

func (v Vehicle) unavailableErr() error {
	if v.Status.Held() {
		return fmt.Errorf("%w: vehicle %s is %s by driver %s", apperrors.ErrVehicleUnavailable, v.VehicleID, v.Status, v.holder())
	}
	return fmt.Errorf("%w: vehicle %s is %s", apperrors.ErrVehicleUnavailable, v.VehicleID, v.Status)
}

func (v Vehicle) notAssignedErr(driverID string) error {
	if v.Status.Held() {
		return fmt.Errorf("%w: vehicle %s is held by driver %s, not %s", apperrors.ErrNotAssignedToDriver, v.VehicleID, v.holder(), driverID)
	}
	return fmt.Errorf("%w: vehicle %s is %s", apperrors.ErrNotAssignedToDriver, v.VehicleID, v.Status)
}

// Driver carries a weak back-reference to the vehicle it holds. The vehicle record is authoritative.
type Driver struct {
	DriverID          string `json:"driverID"`
	Name              string `json:"name"`
	AssignedVehicleID string `json:"assignedVehicleID,omitempty"`
	AuditFields
}
