package domain

import "time"

// Route is a shuttle route. A nil Fare falls back to the default fare.
type Route struct {
	RouteID string `json:"routeID"`
	Name    string `json:"name"`
	Fare    *Money `json:"fare,omitempty"`
}

// FareSettings holds the global fare and optional explicit floor.
type FareSettings struct {
	DefaultFare Money  `json:"defaultFare"`
	Floor       *Money `json:"floor,omitempty"`
}

// EffectiveFloor is the configured floor, else -(DefaultFare - 1.00), never above zero.
func (s FareSettings) EffectiveFloor() Money {
	if s.Floor != nil {
		return *s.Floor
	}
	floor := -(s.DefaultFare - 100)
	if floor > 0 {
		return 0
	}
	return floor
}

// ResolveFare picks the explicit device amount, then the route fare, then the default.
func ResolveFare(explicit *Money, route *Route, settings FareSettings) Money {
	if explicit != nil {
		return *explicit
	}
	if route != nil && route.Fare != nil {
		return *route.Fare
	}
	return settings.DefaultFare
}

// Receipt is returned for every charge and card refund, including idempotent replays.
type Receipt struct {
	TransactionID   string          `json:"transactionID"`
	Type            TransactionType `json:"type"`
	UserID          string          `json:"userID"`
	PreviousBalance Money           `json:"previousBalance"`
	Amount          Money           `json:"amount"`
	NewBalance      Money           `json:"newBalance"`
	VehicleID       string          `json:"vehicleID,omitempty"`
	PlateNumber     string          `json:"plateNumber,omitempty"`
	Duplicate       bool            `json:"duplicate"`
	Offline         bool            `json:"offline"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// ReceiptFor builds the receipt view of a journal record.
func ReceiptFor(t Transaction, duplicate bool) *Receipt {
	return &Receipt{
		TransactionID:   t.TransactionID,
		Type:            t.Type,
		UserID:          t.SubjectUserID,
		PreviousBalance: t.PreviousBalance,
		Amount:          t.Amount,
		NewBalance:      t.ResultingBalance,
		VehicleID:       t.VehicleID,
		PlateNumber:     t.PlateNumber,
		Duplicate:       duplicate,
		Offline:         t.Offline,
		CreatedAt:       t.CreatedAt,
	}
}

// RefundFailure reports one rejected ID in a batch refund.
type RefundFailure struct {
	TransactionID string `json:"transactionID"`
	Kind          string `json:"kind"`
	Message       string `json:"message"`
}

// RefundBatchResult is the partial-success outcome of a batch refund.
type RefundBatchResult struct {
	Refunded []Transaction  `json:"refunded"`
	Errors   []RefundFailure `json:"errors"`
}
