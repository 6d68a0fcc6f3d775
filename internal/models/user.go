package models

import (
	"time"
)

// Roles assignable to users.
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// ValidRoles defines allowed user roles
var ValidRoles = map[string]bool{
	RoleAdmin: true,
	RoleUser:  true,
}

// User represents an account in the system. SuperUser is decided at creation
// time and is immutable afterwards: the role of a super user can never change
// and the row can never be deleted.
type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	SuperUser    bool      `json:"superUser" db:"super_user"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// IsAdmin reports whether the user carries the ADMIN role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserLine is a grant allowing a non-admin user to edit a line's data.
type UserLine struct {
	UserID int64 `json:"userId" db:"user_id"`
	LineID int64 `json:"lineId" db:"line_id"`
}
