// Package sessions covers session establishment: turning a redeemed user
// into an authenticated session. The redemption core treats this boundary
// as fire-and-forget; a failure here never rolls back token consumption.
package sessions

import "github.com/jrsteele09/go-unique-login/users"

// Establisher marks the current request as authenticated as the given user
// and returns the opaque session credential handed to the client.
type Establisher interface {
	Establish(user *users.User) (string, error)
}
