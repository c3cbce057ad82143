package sessions

import (
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/jrsteele09/go-unique-login/internal/config"
	"github.com/jrsteele09/go-unique-login/users"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

var _ Establisher = (*Manager)(nil)

// Manager issues signed HS256 session tokens for redeemed users
type Manager struct {
	config config.SessionConfig
}

// NewManager creates a new session manager
func NewManager(cfg config.SessionConfig) *Manager {
	return &Manager{
		config: cfg,
	}
}

// Establish creates a signed session token for the user
func (m *Manager) Establish(user *users.User) (string, error) {
	claims := jwtlib.MapClaims{
		"iss":      m.config.GetSessionIssuer(),
		"sub":      user.ID,
		"name":     user.Name,
		"username": user.Username,
		"iat":      int64(NowTimeFunc().Unix()),
		"exp":      int64(NowTimeFunc().Add(m.config.GetSessionTTL()).Unix()),
		"jti":      uuid.New().String(),
	}

	signedToken, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte(m.config.GetSessionSecret()))
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signedToken, nil
}

// Verify parses a session token and returns the subject it authenticates.
// Used by the already-authenticated short-circuit on the login route.
func (m *Manager) Verify(tokenStr string) (string, error) {
	parsed, err := jwtlib.Parse(tokenStr, func(t *jwtlib.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(m.config.GetSessionSecret()), nil
	}, jwtlib.WithTimeFunc(func() time.Time { return NowTimeFunc() }))
	if err != nil {
		return "", fmt.Errorf("invalid session token: %w", err)
	}

	claims, ok := parsed.Claims.(jwtlib.MapClaims)
	if !ok || !parsed.Valid {
		return "", fmt.Errorf("invalid session token claims")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", fmt.Errorf("session token missing subject")
	}
	return sub, nil
}
