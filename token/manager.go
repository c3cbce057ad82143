package token

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/jrsteele09/go-unique-login/internal/config"
	"github.com/jrsteele09/go-unique-login/internal/errors"
	"github.com/jrsteele09/go-unique-login/users"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Manager handles unique login token issuance
type Manager struct {
	repo      Repo
	directory users.Directory
	config    config.TokenConfig
}

// NewManager creates a new token issuance manager
func NewManager(repo Repo, directory users.Directory, cfg config.TokenConfig) *Manager {
	return &Manager{
		repo:      repo,
		directory: directory,
		config:    cfg,
	}
}

// Issue mints a single-use login token for the given subject. The subject
// must exist in the user directory; no token record is created otherwise.
// A ttl <= 0 falls back to the configured default.
//
// The caller is responsible for transmitting the token value to the
// operator; the manager has no knowledge of transport.
func (m *Manager) Issue(ctx context.Context, subjectID string, ttl time.Duration) (*Token, error) {
	subjectID = strings.TrimSpace(subjectID)
	if subjectID == "" {
		return nil, errors.ErrInvalidSubjectID
	}

	if _, err := m.directory.GetByID(subjectID); err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, errors.Wrapf(errors.ErrUnknownSubject, "subject %q", subjectID)
		}
		return nil, errors.Wrapf(err, "directory lookup for subject %q", subjectID)
	}

	if ttl <= 0 {
		ttl = m.config.GetTokenTTL()
	}

	now := NowTimeFunc()

	// A duplicate value is astronomically unlikely at 256 bits of entropy,
	// but the store treats it as a hard constraint, so regenerate once.
	for attempt := 0; attempt < 2; attempt++ {
		value, err := m.generateValue()
		if err != nil {
			return nil, errors.Wrapf(err, "token generation")
		}

		t := &Token{
			Value:     value,
			SubjectID: subjectID,
			ExpiresAt: now.Add(ttl),
			CreatedAt: now,
		}

		err = m.repo.Insert(ctx, t)
		if err == nil {
			return t, nil
		}
		if !errors.Is(err, errors.ErrDuplicateValue) {
			return nil, errors.Wrapf(err, "failed to store token")
		}
	}

	return nil, errors.ErrIssuanceFailed
}

func (m *Manager) generateValue() (string, error) {
	tokenBytes := make([]byte, m.config.GetTokenLength()) // Configured length (default: 32 bytes = 256 bits)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(tokenBytes), nil
}
