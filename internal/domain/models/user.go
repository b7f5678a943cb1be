package models

import (
	"time"
)

// Role is the application-level role stored on a user row.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is the app-side user record, created lazily on first successful
// credential verification (upsert-by-uid semantics).
type User struct {
	ID          string    `json:"_id" db:"id"`
	UID         string    `json:"uid" db:"uid"` // external credential id (Supabase auth user id)
	Email       string    `json:"email" db:"email"`
	DisplayName string    `json:"displayName" db:"display_name"`
	PhotoURL    string    `json:"photoURL" db:"photo_url"`
	Role        Role      `json:"role" db:"role"`
	IsVerified  bool      `json:"isVerified" db:"is_verified"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// Identity identifies the caller of an operation. The zero value is the
// anonymous caller.
func (u *User) Identity() Identity {
	if u == nil {
		return Anonymous
	}
	return Identity{UserID: u.ID, Role: u.Role}
}

// Identity is what the access policy and query builder see: the app-side
// user id plus role. It carries no credentials.
type Identity struct {
	UserID string
	Role   Role
}

// Anonymous is the identity of an unauthenticated caller.
var Anonymous = Identity{}

func (i Identity) IsAnonymous() bool { return i.UserID == "" }
func (i Identity) IsAdmin() bool     { return i.Role == RoleAdmin }

// UserRef is the expanded owner/instructor shape embedded in file and
// course responses.
type UserRef struct {
	ID          string `json:"_id"`
	DisplayName string `json:"displayName,omitempty"`
	Email       string `json:"email,omitempty"`
	PhotoURL    string `json:"photoURL,omitempty"`
}

// Ref returns the embeddable reference for a user, or a bare-id ref when
// the row could not be expanded.
func Ref(u *User, fallbackID string) UserRef {
	if u == nil {
		return UserRef{ID: fallbackID}
	}
	return UserRef{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		Email:       u.Email,
		PhotoURL:    u.PhotoURL,
	}
}
