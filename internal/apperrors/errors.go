package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
// For charges it signals an idempotent replay, which callers report as success.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates a concurrent modification lost its race.
var ErrConflict = errors.New("conflicting update")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates the caller may not perform the action.
var ErrForbidden = errors.New("forbidden")

// ErrInternal indicates an unexpected failure.
var ErrInternal = errors.New("internal error")

// ErrStorage wraps store connectivity and query failures.
var ErrStorage = errors.New("storage error")

var (
	ErrCardNotRecognized     = errors.New("card not recognized")
	ErrAccountInactive       = errors.New("account inactive")
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrInvalidAmount         = errors.New("invalid amount")
	ErrAlreadyRefunded       = errors.New("transaction already refunded")
	ErrNotRefundable         = errors.New("transaction is not refundable")
	ErrNotAssignedToDriver   = errors.New("vehicle not assigned to driver")
	ErrVehicleUnavailable    = errors.New("vehicle unavailable")
	ErrDriverAlreadyAssigned = errors.New("driver already holds a vehicle")
)

// storageError marks err as a storage failure while keeping it inspectable.
type storageError struct {
	op  string
	err error
}

func (e *storageError) Error() string {
	return fmt.Sprintf("%s: %v", e.op, e.err)
}

func (e *storageError) Unwrap() []error {
	return []error{ErrStorage, e.err}
}

// NewStorageError wraps a store failure so errors.Is(err, ErrStorage) holds.
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &storageError{op: op, err: err}
}

// Kind returns a stable machine-readable name for the first known sentinel in err's chain.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrCardNotRecognized):
		return "CARD_NOT_RECOGNIZED"
	case errors.Is(err, ErrAccountInactive):
		return "ACCOUNT_INACTIVE"
	case errors.Is(err, ErrInsufficientBalance):
		return "INSUFFICIENT_BALANCE"
	case errors.Is(err, ErrInvalidAmount):
		return "INVALID_AMOUNT"
	case errors.Is(err, ErrAlreadyRefunded):
		return "ALREADY_REFUNDED"
	case errors.Is(err, ErrNotRefundable):
		return "NOT_REFUNDABLE"
	case errors.Is(err, ErrNotAssignedToDriver):
		return "NOT_ASSIGNED_TO_DRIVER"
	case errors.Is(err, ErrVehicleUnavailable):
		return "VEHICLE_UNAVAILABLE"
	case errors.Is(err, ErrDriverAlreadyAssigned):
		return "DRIVER_ALREADY_ASSIGNED"
	case errors.Is(err, ErrDuplicate):
		return "DUPLICATE_TRANSACTION"
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrValidation):
		return "VALIDATION"
	case errors.Is(err, ErrConflict):
		return "CONFLICT"
	case errors.Is(err, ErrUnauthorized):
		return "UNAUTHORIZED"
	case errors.Is(err, ErrForbidden):
		return "FORBIDDEN"
	case errors.Is(err, ErrStorage):
		return "STORAGE_ERROR"
	default:
		return "INTERNAL"
	}
}
