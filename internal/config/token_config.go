package config

import (
	"strconv"
	"time"
)

type TokenConfig interface {
	GetTokenTTL() time.Duration
	GetTokenLength() int
	GetReapInterval() time.Duration
}

type Token struct{}

var _ TokenConfig = Token{}

// GetTokenTTL returns how long an issued login link stays redeemable.
// Configured in whole hours via TOKEN_TTL_HOURS (default: 24).
func (Token) GetTokenTTL() time.Duration {
	hours, err := strconv.Atoi(GetEnv("TOKEN_TTL_HOURS", "24"))
	if err != nil || hours <= 0 {
		hours = 24
	}
	return time.Duration(hours) * time.Hour
}

func (Token) GetTokenLength() int {
	return 32 // 32 bytes = 256 bits, hex encoded to 64 characters
}

// GetReapInterval returns how often the background reaper runs in serve
// mode. Configured in minutes via REAP_INTERVAL_MINUTES (default: 60).
func (Token) GetReapInterval() time.Duration {
	minutes, err := strconv.Atoi(GetEnv("REAP_INTERVAL_MINUTES", "60"))
	if err != nil || minutes <= 0 {
		minutes = 60
	}
	return time.Duration(minutes) * time.Minute
}
