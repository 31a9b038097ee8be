package domain

import (
	"fmt"
	"time"
)

// ViewerRole is the side of the conversation looking at a thread
type ViewerRole string

const (
	RoleAdmin     ViewerRole = "admin"
	RoleRequester ViewerRole = "requester"
)

// RoleOf maps the admin flag to a role
func RoleOf(isAdmin bool) ViewerRole {
	if isAdmin {
		return RoleAdmin
	}
	return RoleRequester
}

// ParseViewerRole validates a raw role value
func ParseViewerRole(s string) (ViewerRole, error) {
	r := ViewerRole(s)
	if r != RoleAdmin && r != RoleRequester {
		return "", NewValidationError("role", fmt.Sprintf("unknown role %q", s))
	}
	return r, nil
}

// IsAdmin returns true for the admin side
func (r ViewerRole) IsAdmin() bool {
	return r == RoleAdmin
}

// Comment is an append-only message on a booking thread.
// ID is assigned by the store and is monotonic, so it is also the thread order.
// IsRead is set by the party that did not write the comment.
type Comment struct {
	ID         int64
	BookingID  int64
	Content    string
	IsAdmin    bool
	AuthorName *string
	IsRead     bool
	CreatedAt  time.Time
}

// IsUnreadFor returns true if the comment was written by the other side and not yet read
func (c *Comment) IsUnreadFor(role ViewerRole) bool {
	return !c.IsRead && c.IsAdmin != role.IsAdmin()
}

// UnreadFilter область подсчёта непрочитанных комментариев
type UnreadFilter struct {
	Role        ViewerRole
	RequesterID *string // Только бронирования этого персонажа (для роли requester)
	BookingID   *int64  // Только одно бронирование
}
