package domain

import (
	"time"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// IsValid returns true for a known status
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal returns true for completed and cancelled
func (s BookingStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Requester identifies who filed the booking
type Requester struct {
	CharacterID string
	Contact     string
}

// Booking represents an assistance request in the system
type Booking struct {
	ID               int64
	RequestNumber    string
	Requester        Requester
	AssistanceTypeID int64
	AdditionalInfo   *string
	PhotoURLs        []string

	// Schedule and Window are nil when the assistance type does not allow scheduling
	Schedule *Schedule
	Window   *Window
	Slots    int

	DonationIntent bool
	Status         BookingStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking still holds its slots
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelled
}

// IsTerminal returns true if no further status change is possible
func (b *Booking) IsTerminal() bool {
	return b.Status.IsTerminal()
}

// IsScheduled returns true if the booking takes part in capacity accounting
func (b *Booking) IsScheduled() bool {
	return b.Schedule != nil && b.Window != nil
}

// IsOwnedBy returns true if characterID filed the booking
func (b *Booking) IsOwnedBy(characterID string) bool {
	return characterID != "" && b.Requester.CharacterID == characterID
}

// CanAddPhotos returns true while the booking is pending or confirmed
func (b *Booking) CanAddPhotos() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// allowedTransitions lists legal moves and whether they are admin-only
var allowedTransitions = map[BookingStatus]map[BookingStatus]bool{
	StatusPending: {
		StatusConfirmed: true,
		StatusCancelled: false,
	},
	StatusConfirmed: {
		StatusCompleted: true,
		StatusCancelled: false,
	},
}

// ValidateTransition checks that from -> to is a legal move for the caller.
// Illegal moves return *InvalidTransitionError; legal but admin-only moves
// requested by a non-admin return ErrAccessDenied.
func ValidateTransition(from, to BookingStatus, byAdmin bool) error {
	adminOnly, ok := allowedTransitions[from][to]
	if !ok {
		return &InvalidTransitionError{From: from, To: to}
	}
	if adminOnly && !byAdmin {
		return ErrAccessDenied
	}
	return nil
}

// BookingFilter фильтр списка бронирований
type BookingFilter struct {
	RequesterID      *string        // Только заявки этого персонажа (nil - все)
	AssistanceTypeID *int64         // Фильтр по типу помощи
	Status           *BookingStatus // Фильтр по статусу
	Limit            int            // 0 - без ограничения
	Offset           int
}
