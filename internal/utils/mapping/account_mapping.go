package mapping

import (
	"github.com/SscSPs/campus_fare_ledger/internal/core/domain"
	"github.com/SscSPs/campus_fare_ledger/internal/models"
)

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		UserID:      m.UserID,
		RFID:        m.RFID,
		DisplayName: m.DisplayName,
		Email:       StringValue(m.Email),
		Balance:     domain.Money(m.Balance),
		State:       domain.AccountState(m.State),
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
