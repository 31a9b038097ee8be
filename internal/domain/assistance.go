package domain

import (
	"fmt"
	"strings"
	"time"
)

// AssistanceType is a category of assistance with its availability rules.
// Name and capability flags are frozen once a booking references the type.
type AssistanceType struct {
	ID               int64
	Name             string
	Active           bool
	DisplayOrder     int
	AllowPhotoUpload bool
	AllowSchedule    bool
	Capacity         *int // nil = unlimited
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// HasCapacityLimit returns true if admission is gated by a capacity
func (t *AssistanceType) HasCapacityLimit() bool {
	return t.AllowSchedule && t.Capacity != nil
}

// Validate checks the fields every stored type must satisfy
func (t *AssistanceType) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return NewValidationError("name", "must not be blank")
	}
	if len(t.Name) > MaxNameLength {
		return NewValidationError("name", fmt.Sprintf("must be at most %d characters", MaxNameLength))
	}
	if t.Capacity != nil && (*t.Capacity < 1 || *t.Capacity > MaxCapacity) {
		return NewValidationError("capacity", fmt.Sprintf("must be between 1 and %d", MaxCapacity))
	}
	return nil
}

// AssistanceTemplate pre-fills a new booking request. Bookings copy its fields
// at creation time and keep no reference to it.
type AssistanceTemplate struct {
	ID               int64
	Title            string
	Description      *string
	AssistanceTypeID int64
	DefaultSchedule  *Schedule
	DefaultSlots     int
	Active           bool
	DisplayOrder     int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// FeaturedToon is a cosmetic catalog entry shown on the landing page
type FeaturedToon struct {
	ID             int64
	CharacterClass string
	Name           string
	ImageURL       string
	Description    *string
	DisplayOrder   int
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
