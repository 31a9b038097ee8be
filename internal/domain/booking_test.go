package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    BookingStatus
		to      BookingStatus
		byAdmin bool
		wantErr error
	}{
		{"admin confirms pending", StatusPending, StatusConfirmed, true, nil},
		{"requester confirms pending", StatusPending, StatusConfirmed, false, ErrAccessDenied},
		{"requester cancels pending", StatusPending, StatusCancelled, false, nil},
		{"admin cancels confirmed", StatusConfirmed, StatusCancelled, true, nil},
		{"admin completes confirmed", StatusConfirmed, StatusCompleted, true, nil},
		{"requester completes confirmed", StatusConfirmed, StatusCompleted, false, ErrAccessDenied},
		{"pending to completed", StatusPending, StatusCompleted, true, ErrInvalidTransition},
		{"confirmed back to pending", StatusConfirmed, StatusPending, true, ErrInvalidTransition},
		{"completed is terminal", StatusCompleted, StatusCancelled, true, ErrInvalidTransition},
		{"cancelled is terminal", StatusCancelled, StatusConfirmed, true, ErrInvalidTransition},
		{"self loop", StatusPending, StatusPending, true, ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTransition(tt.from, tt.to, tt.byAdmin)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateTransition_ReportsStatuses(t *testing.T) {
	err := ValidateTransition(StatusPending, StatusCompleted, true)

	var tErr *InvalidTransitionError
	assert.True(t, errors.As(err, &tErr))
	assert.Equal(t, StatusPending, tErr.From)
	assert.Equal(t, StatusCompleted, tErr.To)
}

func TestBookingPredicates(t *testing.T) {
	b := &Booking{Status: StatusConfirmed, Requester: Requester{CharacterID: "char-1"}}

	assert.True(t, b.IsActive())
	assert.False(t, b.IsTerminal())
	assert.True(t, b.CanAddPhotos())
	assert.True(t, b.IsOwnedBy("char-1"))
	assert.False(t, b.IsOwnedBy(""))

	b.Status = StatusCancelled
	assert.False(t, b.IsActive())
	assert.True(t, b.IsTerminal())
	assert.False(t, b.CanAddPhotos())

	assert.True(t, Caller{UserID: "other", IsAdmin: true}.CanAccess(b))
	assert.False(t, Caller{UserID: "other"}.CanAccess(b))
}

func TestTransientConflictError(t *testing.T) {
	cause := errors.New("could not serialize access")
	err := error(&TransientConflictError{Op: "create booking", Attempts: 3, Err: cause})

	assert.ErrorIs(t, err, ErrTransientConflict)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "3 attempts")
}
