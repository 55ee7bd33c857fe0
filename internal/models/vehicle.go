package models

// Vehicle is a row of the vehicles table.
type Vehicle struct {
	VehicleID          string  `db:"vehicle_id"`
	PlateNumber        string  `db:"plate_number"`
	Status             string  `db:"status"`
	CurrentDriverID    *string `db:"current_driver_id"`
	CurrentDriverLabel *string `db:"current_driver_label"`
	Version            int64   `db:"version"`
	AuditFields
}

// Driver is a row of the drivers table.
type Driver struct {
	DriverID          string  `db:"driver_id"`
	Name              string  `db:"name"`
	AssignedVehicleID *string `db:"assigned_vehicle_id"`
	AuditFields
}
