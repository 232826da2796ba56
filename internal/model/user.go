package model

import "time"

// UserRole enumerates the roles the reservation backend assigns to
// accounts.  The client only distinguishes admins from everyone else.
type UserRole string

const (
	RoleAdmin    UserRole = "ADMIN"
	RoleNonAdmin UserRole = "NADMIN"
)

// User is the authenticated identity returned by the reservation
// backend alongside an access token.  At most one User is active per
// session; it lives only in process memory.
//
// Fields:
//
//	ID        – backend identifier.
//	Name      – display name chosen at sign-up.
//	Email     – sign-in email address.
//	Role      – ADMIN or NADMIN.
//	CreatedAt – account creation timestamp.
//	UpdatedAt – last account update timestamp.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      UserRole  `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsAdmin reports whether the user holds the ADMIN role.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }
