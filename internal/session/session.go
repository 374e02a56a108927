// Package session owns the single authoritative record of who is logged in.
// All mutations go through the Store's named transitions, and the
// authenticated subset of the state survives process restarts via a
// Persister.
package session

import "time"

// Role determines which parts of the application a user may access.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User identifies the authenticated principal as returned by the API.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Image     string    `json:"image,omitempty"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsAdmin returns true if the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// State is the persisted subset of the session. Loading and error flags are
// transient and deliberately absent.
type State struct {
	User          *User  `json:"user"`
	Token         string `json:"token"`
	Authenticated bool   `json:"authenticated"`
}

// Persister stores the session snapshot across process restarts.
type Persister interface {
	Load() (*State, error)
	Save(*State) error
}
