package domain_test

import (
	"testing"

	"github.com/SscSPs/campus_fare_ledger/internal/apperrors"
	"github.com/SscSPs/campus_fare_ledger/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVehicle_Lifecycle(t *testing.T) {
	v := domain.Vehicle{VehicleID: "V1", Status: domain.VehicleAvailable}

	reserved, changed, err := v.Reserve("D1", "Juan")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, domain.VehicleReserved, reserved.Status)
	assert.Equal(t, "D1", reserved.CurrentDriverID)

	_, _, err = reserved.Reserve("D2", "Maria")
	assert.ErrorIs(t, err, apperrors.ErrVehicleUnavailable)
	assert.Contains(t, err.Error(), "D1 (Juan)")

	_, _, err = reserved.BeginTrip("D2")
	assert.ErrorIs(t, err, apperrors.ErrNotAssignedToDriver)

	inUse, changed, err := reserved.BeginTrip("D1")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, domain.VehicleInUse, inUse.Status)

	_, _, err = inUse.Release("D2")
	assert.ErrorIs(t, err, apperrors.ErrNotAssignedToDriver)

	released, changed, err := inUse.Release("D1")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, domain.VehicleAvailable, released.Status)
	assert.Empty(t, released.CurrentDriverID)
	assert.Empty(t, released.CurrentDriverLabel)

	again, changed, err := released.Reserve("D2", "Maria")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "D2", again.CurrentDriverID)
}

func TestVehicle_IdempotentTransitions(t *testing.T) {
	reserved := domain.Vehicle{VehicleID: "V1", Status: domain.VehicleReserved, CurrentDriverID: "D1"}
	_, changed, err := reserved.Reserve("D1", "")
	require.NoError(t, err)
	assert.False(t, changed)

	inUse := domain.Vehicle{VehicleID: "V1", Status: domain.VehicleInUse, CurrentDriverID: "D1"}
	_, changed, err = inUse.BeginTrip("D1")
	require.NoError(t, err)
	assert.False(t, changed)

	for _, status := range []domain.VehicleStatus{domain.VehicleAvailable, domain.VehicleUnavailable} {
		v := domain.Vehicle{VehicleID: "V1", Status: status}
		next, changed, err := v.Release("D9")
		require.NoError(t, err, status)
		assert.False(t, changed)
		assert.Equal(t, status, next.Status)
	}
}

func TestVehicle_AdminTransitions(t *testing.T) {
	v := domain.Vehicle{VehicleID: "V1", Status: domain.VehicleAvailable}

	off, changed, err := v.MarkUnavailable()
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, domain.VehicleUnavailable, off.Status)

	_, _, err = off.Reserve("D1", "")
	assert.ErrorIs(t, err, apperrors.ErrVehicleUnavailable)
	_, _, err = off.BeginTrip("D1")
	assert.ErrorIs(t, err, apperrors.ErrNotAssignedToDriver)

	on, changed, err := off.MarkAvailable()
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, domain.VehicleAvailable, on.Status)

	held := domain.Vehicle{VehicleID: "V1", Status: domain.VehicleInUse, CurrentDriverID: "D1"}
	_, _, err = held.MarkUnavailable()
	assert.ErrorIs(t, err, apperrors.ErrVehicleUnavailable)
}

func TestVehicleStatus_Valid(t *testing.T) {
	assert.True(t, domain.VehicleInUse.Valid())
	assert.False(t, domain.VehicleStatus("TAKEN").Valid())
	assert.True(t, domain.VehicleReserved.Held())
	assert.False(t, domain.VehicleUnavailable.Held())
}

func TestVehicle_Validate(t *testing.T) {
	assert.NoError(t, domain.Vehicle{VehicleID: "V1", Status: domain.VehicleAvailable}.Validate())
	assert.NoError(t, domain.Vehicle{VehicleID: "V1", Status: domain.VehicleInUse, CurrentDriverID: "D1"}.Validate())

	for _, v := range []domain.Vehicle{
		{VehicleID: "V1", Status: "TAKEN"},
		{VehicleID: "V1", Status: domain.VehicleReserved},
		{VehicleID: "V1", Status: domain.VehicleInUse},
		{VehicleID: "V1", Status: domain.VehicleAvailable, CurrentDriverID: "D1"},
		{VehicleID: "V1", Status: domain.VehicleUnavailable, CurrentDriverID: "D1"},
	} {
		assert.ErrorIs(t, v.Validate(), apperrors.ErrValidation, v.Status)
	}
}
