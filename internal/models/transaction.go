package models

import "time"

// Transaction is a row of the transactions table. Optional context columns are nullable.
type Transaction struct {
	TransactionID         string     `db:"transaction_id"`
	Type                  string     `db:"type"`
	Amount                int64      `db:"amount"`
	PreviousBalance       int64      `db:"previous_balance"`
	ResultingBalance      int64      `db:"resulting_balance"`
	Status                string     `db:"status"`
	SubjectUserID         string     `db:"subject_user_id"`
	RFID                  string     `db:"rfid"`
	VehicleID             *string    `db:"vehicle_id"`
	PlateNumber           *string    `db:"plate_number"`
	RouteID               *string    `db:"route_id"`
	DriverID              *string    `db:"driver_id"`
	MerchantID            *string    `db:"merchant_id"`
	DeviceTimestamp       *time.Time `db:"device_timestamp"`
	DedupKey              *string    `db:"dedup_key"`
	Offline               bool       `db:"offline"`
	OriginalTransactionID *string    `db:"original_transaction_id"`
	RefundTransactionID   *string    `db:"refund_transaction_id"`
	Reason                *string    `db:"reason"`
	AuditFields
}
