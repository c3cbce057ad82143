package server

import (
	"net"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-unique-login/auth"
	"github.com/jrsteele09/go-unique-login/internal/errors"
)

// UniqueLoginHandler redeems a one-time login link (GET /unique_login?hash=...).
// Every denial, whatever its internal reason, lands on the same login
// redirect so a caller cannot probe which tokens exist.
func (s *Server) UniqueLoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := s.authStateFromRequest(r)
		hash := r.URL.Query().Get(hashQueryParam)

		result, err := s.redeemer.Redeem(r.Context(), state, hash)

		switch {
		case err == nil && result.AlreadyAuthenticated:
			log.Warn().Str("subject", state.SubjectID).Msg("Unique login skipped: already logged in")
			http.Redirect(w, r, RouteDashboard, http.StatusFound)

		case errors.Is(err, errors.ErrInvalidToken):
			log.Warn().Str("ip", clientIP(r)).Err(err).Msg("Unique login denied: invalid or expired hash")
			s.denyAccess(w, r)

		case errors.Is(err, errors.ErrSubjectMissing):
			log.Error().Str("ip", clientIP(r)).Err(err).Msg("Unique login denied: user not found")
			s.denyAccess(w, r)

		case err != nil:
			log.Error().Str("ip", clientIP(r)).Err(err).Msg("Unique login error")
			s.denyAccess(w, r)

		default:
			s.setSessionCookie(w, result.SessionToken)
			log.Info().
				Str("user_id", result.User.ID).
				Str("username", result.User.Username).
				Str("ip", clientIP(r)).
				Msg("Unique login successful")
			http.Redirect(w, r, RouteDashboard, http.StatusFound)
		}
	}
}

// authStateFromRequest derives the caller's authentication state from the
// session cookie, if any.
func (s *Server) authStateFromRequest(r *http.Request) auth.AuthState {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return auth.AuthState{}
	}

	subject, err := s.sessions.Verify(cookie.Value)
	if err != nil {
		return auth.AuthState{}
	}
	return auth.AuthState{Authenticated: true, SubjectID: subject}
}

func (s *Server) setSessionCookie(w http.ResponseWriter, sessionToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sessionToken,
		Path:     "/",
		MaxAge:   int(s.config.GetSessionTTL().Seconds()),
		HttpOnly: true,
		Secure:   s.env != "DEV",
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) denyAccess(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, RouteLogin, http.StatusFound)
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
