package domain

import (
	"time"
)

// Role type to distinguish between user roles
type Role string

const (
	RoleUser  Role = "user"
	RoleCoach Role = "coach"
	RoleOwner Role = "owner"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleCoach, RoleOwner, RoleAdmin:
		return true
	}
	return false
}

// User represents an account. Email and Username are unique.
type User struct {
	ID           string    `bson:"_id" db:"id" json:"id"`
	Email        string    `bson:"email" db:"email" json:"email"`
	Username     string    `bson:"username" db:"username" json:"username"`
	FullName     string    `bson:"full_name,omitempty" db:"full_name" json:"full_name,omitempty"`
	AvatarURL    string    `bson:"avatar_url,omitempty" db:"avatar_url" json:"avatar_url,omitempty"`
	PasswordHash string    `bson:"password_hash" db:"password_hash" json:"-"` // Never expose this via JSON
	Role         Role      `bson:"role" db:"role" json:"role"`
	CreatedAt    time.Time `bson:"created_at" db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at" db:"updated_at" json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Identity is the authenticated caller. It is threaded explicitly through
// every service call instead of being read from shared state.
type Identity struct {
	UserID string
	Role   Role
}

func (i Identity) Authenticated() bool {
	return i.UserID != ""
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
