package auth_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-unique-login/auth"
	"github.com/jrsteele09/go-unique-login/internal/config"
	"github.com/jrsteele09/go-unique-login/internal/errors"
	"github.com/jrsteele09/go-unique-login/token"
	tokenrepofake "github.com/jrsteele09/go-unique-login/token/repofake"
	"github.com/jrsteele09/go-unique-login/users"
	userrepofake "github.com/jrsteele09/go-unique-login/users/repofake"
)

const (
	testUserID   = "42"
	testUsername = "jdoe"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// fakeEstablisher records session establishment calls and can be primed to fail.
type fakeEstablisher struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeEstablisher) Establish(user *users.User) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.calls++
	return "session-token-" + user.ID, nil
}

func (f *fakeEstablisher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type testFixture struct {
	tokenRepo   *tokenrepofake.FakeTokenRepo
	directory   *userrepofake.FakeUserDirectory
	establisher *fakeEstablisher
	issuer      *token.Manager
	service     *auth.RedemptionService
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	tokenRepo := tokenrepofake.NewFakeTokenRepo()
	directory := userrepofake.NewFakeUserDirectory()
	directory.Add(&users.User{ID: testUserID, Username: testUsername, Name: "John Doe"})
	establisher := &fakeEstablisher{}

	service, err := auth.NewRedemptionService(
		auth.Repos{Tokens: tokenRepo, Users: directory},
		establisher,
		auth.WithNowTime(func() time.Time { return testNow }),
	)
	require.NoError(t, err)

	return &testFixture{
		tokenRepo:   tokenRepo,
		directory:   directory,
		establisher: establisher,
		issuer:      token.NewManager(tokenRepo, directory, config.Token{}),
		service:     service,
	}
}

func (f *testFixture) issue(t *testing.T, ttl time.Duration) *token.Token {
	t.Helper()
	token.NowTimeFunc = func() time.Time { return testNow }
	defer func() { token.NowTimeFunc = time.Now }()
	tok, err := f.issuer.Issue(context.Background(), testUserID, ttl)
	require.NoError(t, err)
	return tok
}

func TestRedeemSucceedsExactlyOnce(t *testing.T) {
	f := setupTestFixture(t)
	tok := f.issue(t, 24*time.Hour)

	result, err := f.service.Redeem(context.Background(), auth.AuthState{}, tok.Value)
	require.NoError(t, err)
	require.Equal(t, testUserID, result.User.ID)
	require.Equal(t, "session-token-"+testUserID, result.SessionToken)
	require.False(t, result.AlreadyAuthenticated)
	require.Equal(t, 1, f.establisher.Calls())

	// The token is consumed: a subsequent lookup reports absence.
	_, err = f.tokenRepo.GetByValue(context.Background(), tok.Value)
	require.ErrorIs(t, err, errors.ErrTokenNotFound)

	// A second redemption of the same value is denied.
	_, err = f.service.Redeem(context.Background(), auth.AuthState{}, tok.Value)
	require.ErrorIs(t, err, errors.ErrInvalidToken)
	require.Equal(t, 1, f.establisher.Calls())
}

func TestRedeemUnknownValue(t *testing.T) {
	f := setupTestFixture(t)

	_, err := f.service.Redeem(context.Background(), auth.AuthState{}, "no-such-token")
	require.ErrorIs(t, err, errors.ErrInvalidToken)
	require.Equal(t, 0, f.establisher.Calls())
}

func TestRedeemMissingValue(t *testing.T) {
	f := setupTestFixture(t)

	_, err := f.service.Redeem(context.Background(), auth.AuthState{}, "")
	require.ErrorIs(t, err, errors.ErrInvalidToken)
}

func TestRedeemExpiredTokenStaysInStore(t *testing.T) {
	f := setupTestFixture(t)
	tok := f.issue(t, time.Hour)

	// Advance the redemption clock 25 hours past issuance.
	expired, err := auth.NewRedemptionService(
		auth.Repos{Tokens: f.tokenRepo, Users: f.directory},
		f.establisher,
		auth.WithNowTime(func() time.Time { return testNow.Add(25 * time.Hour) }),
	)
	require.NoError(t, err)

	_, err = expired.Redeem(context.Background(), auth.AuthState{}, tok.Value)
	require.ErrorIs(t, err, errors.ErrInvalidToken)
	require.Equal(t, 0, f.establisher.Calls())

	// The expired token remains until reaped or explicitly deleted.
	_, err = f.tokenRepo.GetByValue(context.Background(), tok.Value)
	require.NoError(t, err)
}

func TestRedeemExpiryBoundary(t *testing.T) {
	f := setupTestFixture(t)
	tok := f.issue(t, time.Hour)

	atExpiry, err := auth.NewRedemptionService(
		auth.Repos{Tokens: f.tokenRepo, Users: f.directory},
		f.establisher,
		auth.WithNowTime(func() time.Time { return tok.ExpiresAt }),
	)
	require.NoError(t, err)

	_, err = atExpiry.Redeem(context.Background(), auth.AuthState{}, tok.Value)
	require.ErrorIs(t, err, errors.ErrInvalidToken, "now == expiresAt is expired")
}

func TestRedeemSubjectMissingPreservesToken(t *testing.T) {
	f := setupTestFixture(t)
	tok := f.issue(t, 24*time.Hour)

	f.directory.Remove(testUserID)

	_, err := f.service.Redeem(context.Background(), auth.AuthState{}, tok.Value)
	require.ErrorIs(t, err, errors.ErrSubjectMissing)
	require.Equal(t, 0, f.establisher.Calls())

	// The token stays in place as forensic evidence.
	_, err = f.tokenRepo.GetByValue(context.Background(), tok.Value)
	require.NoError(t, err)
}

// failTokenRepo fails the test on any store access.
type failTokenRepo struct {
	t *testing.T
}

func (r *failTokenRepo) Insert(context.Context, *token.Token) error {
	r.t.Error("unexpected store access")
	return errors.ErrUnsupported
}

func (r *failTokenRepo) GetByValue(context.Context, string) (*token.Token, error) {
	r.t.Error("unexpected store access")
	return nil, errors.ErrUnsupported
}

func (r *failTokenRepo) GetValidByValue(context.Context, string, time.Time) (*token.Token, error) {
	r.t.Error("unexpected store access")
	return nil, errors.ErrUnsupported
}

func (r *failTokenRepo) DeleteByValue(context.Context, string) (int64, error) {
	r.t.Error("unexpected store access")
	return 0, errors.ErrUnsupported
}

func (r *failTokenRepo) DeleteExpired(context.Context, time.Time) (int64, error) {
	r.t.Error("unexpected store access")
	return 0, errors.ErrUnsupported
}

func TestRedeemAlreadyAuthenticatedSkipsStore(t *testing.T) {
	directory := userrepofake.NewFakeUserDirectory()
	establisher := &fakeEstablisher{}

	service, err := auth.NewRedemptionService(
		auth.Repos{Tokens: &failTokenRepo{t: t}, Users: directory},
		establisher,
	)
	require.NoError(t, err)

	state := auth.AuthState{Authenticated: true, SubjectID: testUserID}
	result, err := service.Redeem(context.Background(), state, "some-token-value")
	require.NoError(t, err)
	require.True(t, result.AlreadyAuthenticated)
	require.Equal(t, 0, establisher.Calls(), "no session is established for a skipped redemption")
}

func TestRedeemSessionFailureStillConsumesToken(t *testing.T) {
	f := setupTestFixture(t)
	tok := f.issue(t, 24*time.Hour)

	f.establisher.err = errors.ErrInternal

	_, err := f.service.Redeem(context.Background(), auth.AuthState{}, tok.Value)
	require.Error(t, err)

	// No rollback: the token is spent the moment its delete is confirmed.
	_, err = f.tokenRepo.GetByValue(context.Background(), tok.Value)
	require.ErrorIs(t, err, errors.ErrTokenNotFound)
}

func TestConcurrentRedemptionSingleWinner(t *testing.T) {
	f := setupTestFixture(t)
	tok := f.issue(t, 24*time.Hour)

	const attempts = 8
	var wg sync.WaitGroup
	outcomes := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.service.Redeem(context.Background(), auth.AuthState{}, tok.Value)
			outcomes <- err
		}()
	}
	wg.Wait()
	close(outcomes)

	var successes, denials int
	for err := range outcomes {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, errors.ErrInvalidToken):
			denials++
		default:
			t.Fatalf("unexpected redemption error: %v", err)
		}
	}

	require.Equal(t, 1, successes, "exactly one concurrent redemption may succeed")
	require.Equal(t, attempts-1, denials)
	require.Equal(t, 1, f.establisher.Calls(), "only the winner establishes a session")
}
