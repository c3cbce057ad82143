// Package auth implements the single-use redemption protocol: presenting a
// token value to obtain an authenticated session, consuming the token in
// the process.
package auth

import (
	"context"
	"time"

	"github.com/jrsteele09/go-unique-login/internal/errors"
	"github.com/jrsteele09/go-unique-login/sessions"
	"github.com/jrsteele09/go-unique-login/token"
	"github.com/jrsteele09/go-unique-login/users"
)

// AuthState carries the caller's current authentication status into a
// redemption call, replacing any ambient request context. An already
// authenticated caller short-circuits redemption without touching the store.
type AuthState struct {
	Authenticated bool
	SubjectID     string // Subject of the existing session, if any
}

// Redemption is the outcome of a successful Redeem call.
type Redemption struct {
	User                 *users.User
	SessionToken         string
	AlreadyAuthenticated bool // Redemption was skipped; the token was neither looked up nor consumed
}

// Repos holds all repository dependencies for the RedemptionService
type Repos struct {
	Tokens token.Repo      // Token store
	Users  users.Directory // External user directory
}

// RedemptionService validates presented token values and atomically
// consumes them.
type RedemptionService struct {
	repos       Repos
	establisher sessions.Establisher
	nowTime     func() time.Time // nowTime function (injectable for testing)
}

// RedemptionServiceOption defines a function type to modify the RedemptionService instance.
type RedemptionServiceOption func(*RedemptionService)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) RedemptionServiceOption {
	return func(rs *RedemptionService) {
		rs.nowTime = nowFunc
	}
}

// NewRedemptionService initializes a new RedemptionService with required dependencies.
func NewRedemptionService(repos Repos, establisher sessions.Establisher, options ...RedemptionServiceOption) (*RedemptionService, error) {
	if repos.Tokens == nil {
		return nil, errors.Wrapf(errors.ErrInternal, "[NewRedemptionService] Tokens repo is required")
	}
	if repos.Users == nil {
		return nil, errors.Wrapf(errors.ErrInternal, "[NewRedemptionService] Users directory is required")
	}
	if establisher == nil {
		return nil, errors.Wrapf(errors.ErrInternal, "[NewRedemptionService] establisher is required")
	}

	service := &RedemptionService{
		repos:       repos,
		establisher: establisher,
		nowTime:     time.Now,
	}

	for _, opt := range options {
		opt(service)
	}

	return service, nil
}

// Redeem consumes a token value and establishes a session for its subject.
//
// Exactly one redemption may succeed per value: the store's conditional
// delete is the sole serialization point, so the caller whose delete
// reports a count of 1 wins and every other caller gets ErrInvalidToken.
// Absent, expired and already-consumed tokens all collapse to
// ErrInvalidToken so the caller cannot tell which case occurred; the
// wrapped message records the distinction for logs only.
//
// A token is spent the moment its delete is confirmed: a session
// establishment failure after that point is reported but never rolls the
// deletion back.
func (rs *RedemptionService) Redeem(ctx context.Context, state AuthState, value string) (*Redemption, error) {
	if state.Authenticated {
		return &Redemption{AlreadyAuthenticated: true}, nil
	}

	if value == "" {
		return nil, errors.Wrapf(errors.ErrInvalidToken, "missing token value")
	}

	now := rs.nowTime()

	t, err := rs.repos.Tokens.GetValidByValue(ctx, value, now)
	if err != nil {
		if !errors.Is(err, errors.ErrTokenNotFound) {
			return nil, errors.Wrapf(err, "[Redeem] token lookup")
		}
		// Distinguish expired from never-existed for observability only;
		// both surface the same ErrInvalidToken.
		if _, lookupErr := rs.repos.Tokens.GetByValue(ctx, value); lookupErr == nil {
			return nil, errors.Wrapf(errors.ErrInvalidToken, "token expired")
		}
		return nil, errors.Wrapf(errors.ErrInvalidToken, "token unknown or already consumed")
	}

	user, err := rs.repos.Users.GetByID(t.SubjectID)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			// The token is deliberately left in place: it records that
			// issuance outlived the subject.
			return nil, errors.Wrapf(errors.ErrSubjectMissing, "subject %q", t.SubjectID)
		}
		return nil, errors.Wrapf(err, "[Redeem] subject lookup")
	}

	count, err := rs.repos.Tokens.DeleteByValue(ctx, value)
	if err != nil {
		return nil, errors.Wrapf(err, "[Redeem] token delete")
	}
	if count == 0 {
		// A concurrent redemption consumed the token first.
		return nil, errors.Wrapf(errors.ErrInvalidToken, "token already consumed")
	}

	sessionToken, err := rs.establisher.Establish(user)
	if err != nil {
		return nil, errors.Wrapf(err, "[Redeem] session establishment (token already consumed)")
	}

	return &Redemption{User: user, SessionToken: sessionToken}, nil
}
