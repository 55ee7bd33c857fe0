package apperrors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/SscSPs/campus_fare_ledger/internal/apperrors"
	"github.com/stretchr/testify/assert"
)

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"wrapped insufficient", fmt.Errorf("charge: %w", apperrors.ErrInsufficientBalance), "INSUFFICIENT_BALANCE"},
		{"already refunded", apperrors.ErrAlreadyRefunded, "ALREADY_REFUNDED"},
		{"vehicle unavailable", fmt.Errorf("%w: held by D1", apperrors.ErrVehicleUnavailable), "VEHICLE_UNAVAILABLE"},
		{"storage", apperrors.NewStorageError("update balance", errors.New("conn reset")), "STORAGE_ERROR"},
		{"forbidden", fmt.Errorf("%w: driver D1 acted for D2", apperrors.ErrForbidden), "FORBIDDEN"},
		{"unknown", errors.New("boom"), "INTERNAL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apperrors.Kind(tt.err))
		})
	}
}

func TestNewStorageError(t *testing.T) {
	cause := errors.New("conn reset")
	err := apperrors.NewStorageError("find account", cause)

	assert.ErrorIs(t, err, apperrors.ErrStorage)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "find account: conn reset", err.Error())
	assert.Nil(t, apperrors.NewStorageError("noop", nil))
}
