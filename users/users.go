// Package users defines the user directory boundary. The unique login
// service never owns user records; it only resolves the subject a token is
// bound to against an external directory.
package users

// User is the directory's view of a subject: an opaque identifier plus
// display fields used for console output and session claims.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username,omitempty"`
	Name     string `json:"name,omitempty"`
}

// Directory looks up users by their opaque identifier.
type Directory interface {
	GetByID(id string) (*User, error)
}
