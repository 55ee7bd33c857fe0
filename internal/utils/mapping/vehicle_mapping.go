package mapping

import (
	"github.com/SscSPs/campus_fare_ledger/internal/core/domain"
	"github.com/SscSPs/campus_fare_ledger/internal/models"
)

// ToDomainVehicle converts a model Vehicle to a domain Vehicle
func ToDomainVehicle(m models.Vehicle) domain.Vehicle {
	return domain.Vehicle{
		VehicleID:          m.VehicleID,
		PlateNumber:        m.PlateNumber,
		Status:             domain.VehicleStatus(m.Status),
		CurrentDriverID:    StringValue(m.CurrentDriverID),
		CurrentDriverLabel: StringValue(m.CurrentDriverLabel),
		Version:            m.Version,
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainDriver converts a model Driver to a domain Driver
func ToDomainDriver(m models.Driver) domain.Driver {
	return domain.Driver{
		DriverID:          m.DriverID,
		Name:              m.Name,
		AssignedVehicleID: StringValue(m.AssignedVehicleID),
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}
