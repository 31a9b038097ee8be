package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommentIsUnreadFor(t *testing.T) {
	fromAdmin := &Comment{IsAdmin: true}
	fromRequester := &Comment{IsAdmin: false}

	assert.True(t, fromAdmin.IsUnreadFor(RoleRequester))
	assert.False(t, fromAdmin.IsUnreadFor(RoleAdmin))
	assert.True(t, fromRequester.IsUnreadFor(RoleAdmin))
	assert.False(t, fromRequester.IsUnreadFor(RoleRequester))

	fromAdmin.IsRead = true
	assert.False(t, fromAdmin.IsUnreadFor(RoleRequester))
}

func TestParseViewerRole(t *testing.T) {
	r, err := ParseViewerRole("admin")
	assert.NoError(t, err)
	assert.Equal(t, RoleAdmin, r)

	_, err = ParseViewerRole("guest")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDayCapacity(t *testing.T) {
	capacity := 2
	c := &DayCapacity{Day: Monday, Used: 1, Capacity: &capacity}

	assert.Equal(t, 1, *c.Remaining())
	assert.True(t, c.Fits(1))
	assert.False(t, c.Fits(2))
	assert.False(t, c.IsFull())
	assert.Equal(t, 50.0, c.OccupancyRate())

	unlimited := &DayCapacity{Day: Monday, Used: 1000}
	assert.Nil(t, unlimited.Remaining())
	assert.True(t, unlimited.Fits(1000))
}
