package domain

import "time"

// ReceiptNotification is queued for email delivery after a balance mutation.
type ReceiptNotification struct {
	Receipt     Receipt `json:"receipt"`
	Email       string  `json:"email"`
	DisplayName string  `json:"displayName"`
}

// ChangeEvent is broadcast to real-time listeners when an entity changes.
type ChangeEvent struct {
	Entity string    `json:"entity"`
	ID     string    `json:"id"`
	Action string    `json:"action"`
	Status string    `json:"status,omitempty"`
	At     time.Time `json:"at"`
}

const (
	EntityTransaction = "transaction"
	EntityVehicle     = "vehicle"
)
