package mapping

import (
	"github.com/SscSPs/campus_fare_ledger/internal/core/domain"
	"github.com/SscSPs/campus_fare_ledger/internal/models"
)

// ToDomainRoute converts a model Route to a domain Route
func ToDomainRoute(m models.Route) domain.Route {
	r := domain.Route{RouteID: m.RouteID, Name: m.Name}
	if m.Fare != nil {
		fare := domain.Money(*m.Fare)
		r.Fare = &fare
	}
	return r
}

// ToDomainFareSettings converts a model FareSettings to a domain FareSettings
func ToDomainFareSettings(m models.FareSettings) domain.FareSettings {
	s := domain.FareSettings{DefaultFare: domain.Money(m.DefaultFare)}
	if m.Floor != nil {
		floor := domain.Money(*m.Floor)
		s.Floor = &floor
	}
	return s
}
