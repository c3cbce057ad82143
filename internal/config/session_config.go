package config

import (
	"strconv"
	"time"
)

type SessionConfig interface {
	GetSessionSecret() string
	GetSessionTTL() time.Duration
	GetSessionIssuer() string
}

type Session struct{}

var _ SessionConfig = Session{}

// GetSessionSecret returns the HMAC secret used to sign session tokens.
// Must be set in production; the default exists for local development only.
func (Session) GetSessionSecret() string {
	return GetEnv("SESSION_SECRET", "dev-session-secret")
}

func (Session) GetSessionTTL() time.Duration {
	minutes, err := strconv.Atoi(GetEnv("SESSION_TTL_MINUTES", "480"))
	if err != nil || minutes <= 0 {
		minutes = 480
	}
	return time.Duration(minutes) * time.Minute
}

func (Session) GetSessionIssuer() string {
	return GetEnv("SESSION_ISSUER", "go-unique-login")
}
