package models

// Account is a row of the accounts table. Balance is stored in centavos.
type Account struct {
	UserID      string  `db:"user_id"`
	RFID        string  `db:"rfid"`
	DisplayName string  `db:"display_name"`
	Email       *string `db:"email"` // Nullable
	Balance     int64   `db:"balance"`
	State       string  `db:"state"`
	AuditFields
}
