package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// The public redemption route; the token value arrives as the
	// "hash" query parameter.
	RouteUniqueLogin = "/unique_login"

	// Where denied redemptions are sent
	RouteLogin = "/login"

	// Where successful or already-authenticated redemptions are sent
	RouteDashboard = "/"

	RouteHealth = "/healthz"
)

const (
	hashQueryParam    = "hash"
	sessionCookieName = "uli_session"
)
