package mapping

import (
	"github.com/SscSPs/campus_fare_ledger/internal/core/domain"
	"github.com/SscSPs/campus_fare_ledger/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	m := models.Transaction{
		TransactionID:         d.TransactionID,
		Type:                  string(d.Type),
		Amount:                int64(d.Amount),
		PreviousBalance:       int64(d.PreviousBalance),
		ResultingBalance:      int64(d.ResultingBalance),
		Status:                string(d.Status),
		SubjectUserID:         d.SubjectUserID,
		RFID:                  d.RFID,
		VehicleID:             NullableString(d.VehicleID),
		PlateNumber:           NullableString(d.PlateNumber),
		RouteID:               NullableString(d.RouteID),
		DriverID:              NullableString(d.DriverID),
		MerchantID:            NullableString(d.MerchantID),
		DedupKey:              NullableString(d.DedupKey),
		Offline:               d.Offline,
		OriginalTransactionID: NullableString(d.OriginalTransactionID),
		RefundTransactionID:   NullableString(d.RefundTransactionID),
		Reason:                NullableString(d.Reason),
		AuditFields:           ToModelAuditFields(d.AuditFields),
	}
	if d.DeviceTimestamp != nil {
		ts := d.DeviceTimestamp.UTC()
		m.DeviceTimestamp = &ts
	}
	return m
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	d := domain.Transaction{
		TransactionID:         m.TransactionID,
		Type:                  domain.TransactionType(m.Type),
		Amount:                domain.Money(m.Amount),
		PreviousBalance:       domain.Money(m.PreviousBalance),
		ResultingBalance:      domain.Money(m.ResultingBalance),
		Status:                domain.TransactionStatus(m.Status),
		SubjectUserID:         m.SubjectUserID,
		RFID:                  m.RFID,
		VehicleID:             StringValue(m.VehicleID),
		PlateNumber:           StringValue(m.PlateNumber),
		RouteID:               StringValue(m.RouteID),
		DriverID:              StringValue(m.DriverID),
		MerchantID:            StringValue(m.MerchantID),
		DedupKey:              StringValue(m.DedupKey),
		Offline:               m.Offline,
		OriginalTransactionID: StringValue(m.OriginalTransactionID),
		RefundTransactionID:   StringValue(m.RefundTransactionID),
		Reason:                StringValue(m.Reason),
		AuditFields:           ToDomainAuditFields(m.AuditFields),
	}
	if m.DeviceTimestamp != nil {
		ts := m.DeviceTimestamp.UTC()
		d.DeviceTimestamp = &ts
	}
	return d
}
