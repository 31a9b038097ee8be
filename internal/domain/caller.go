package domain

// Caller is the identity supplied by the authentication layer. It is trusted as is.
type Caller struct {
	UserID  string
	IsAdmin bool
}

// Role returns the viewer role of the caller
func (c Caller) Role() ViewerRole {
	return RoleOf(c.IsAdmin)
}

// CanAccess returns true if the caller is an admin or owns the booking
func (c Caller) CanAccess(b *Booking) bool {
	return c.IsAdmin || b.IsOwnedBy(c.UserID)
}
