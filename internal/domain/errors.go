package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every typed error below unwraps to one of these,
// so callers can branch with errors.Is and inspect details with errors.As.
var (
	ErrValidation        = errors.New("validation error")
	ErrCapacityExceeded  = errors.New("capacity exceeded")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNotFound          = errors.New("not found")
	ErrTransientConflict = errors.New("transient conflict")
	ErrAccessDenied      = errors.New("access denied")
)

// ValidationError reports a malformed request field
type ValidationError struct {
	Field  string
	Reason string
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrValidation, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrValidation, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// CapacityExceededError reports the first day on which the requested window does not fit
type CapacityExceededError struct {
	Day       Weekday
	Window    Window
	Requested int
	Used      int
	Capacity  int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("%s: %s %s: requested %d, used %d of %d",
		ErrCapacityExceeded, e.Day, e.Window, e.Requested, e.Used, e.Capacity)
}

func (e *CapacityExceededError) Unwrap() error { return ErrCapacityExceeded }

// InvalidTransitionError reports an illegal lifecycle move.
// Action is set instead of To when a non-status change (e.g. adding photos)
// is not allowed in the current status.
type InvalidTransitionError struct {
	From   BookingStatus
	To     BookingStatus
	Action string
}

func (e *InvalidTransitionError) Error() string {
	if e.Action != "" {
		return fmt.Sprintf("%s: cannot %s while %s", ErrInvalidTransition, e.Action, e.From)
	}
	return fmt.Sprintf("%s: %s -> %s", ErrInvalidTransition, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidTransition }

// NotFoundError reports a missing entity
type NotFoundError struct {
	Entity string
	ID     int64
}

func NewNotFoundError(entity string, id int64) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d: %s", e.Entity, e.ID, ErrNotFound)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// TransientConflictError is returned once internal retries after a concurrent write are exhausted.
// The caller may retry the whole operation.
type TransientConflictError struct {
	Op       string
	Attempts int
	Err      error
}

func (e *TransientConflictError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s after %d attempts", ErrTransientConflict, e.Op, e.Attempts)
	}
	return fmt.Sprintf("%s: %s after %d attempts: %v", ErrTransientConflict, e.Op, e.Attempts, e.Err)
}

func (e *TransientConflictError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrTransientConflict}
	}
	return []error{ErrTransientConflict, e.Err}
}

// Entity names used in NotFoundError
const (
	EntityBooking            = "booking"
	EntityAssistanceType     = "assistance type"
	EntityAssistanceTemplate = "assistance template"
	EntityFeaturedToon       = "featured toon"
)
