package server

import (
	"fmt"
	"net/http"
)

// DashboardHandler is the authenticated landing page. The real dashboard
// belongs to the host application; this stands in for it.
func (s *Server) DashboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != RouteDashboard {
			http.NotFound(w, r)
			return
		}

		state := s.authStateFromRequest(r)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if state.Authenticated {
			fmt.Fprintf(w, "%s: logged in as %s\n", s.config.GetAppName(), state.SubjectID)
			return
		}
		fmt.Fprintf(w, "%s: not logged in\n", s.config.GetAppName())
	}
}

// LoginDeniedHandler is where denied redemptions land.
func (s *Server) LoginDeniedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprintln(w, "Login link is invalid or has expired.")
	}
}

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	}
}
