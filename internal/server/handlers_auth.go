package server

import (
	"net/http"

	"github.com/jonathan/job-tracker/internal/server/middleware"
	"github.com/jonathan/job-tracker/internal/types"
)

// setSessionCookie mirrors the token into the session cookie used by page
// requests. Remembered sessions outlive the browser session.
func (s *Server) setSessionCookie(w http.ResponseWriter, token string, remember bool) {
	c := &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if remember && s.jwt != nil {
		c.MaxAge = int(s.jwt.TTL(true).Seconds())
	}
	http.SetCookie(w, c)
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req types.SignupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := s.board.SignUp(r.Context(), &req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.setSessionCookie(w, resp.Token, false)
	s.jsonResponse(w, http.StatusCreated, resp)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	resp, err := s.board.SignIn(r.Context(), &req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.setSessionCookie(w, resp.Token, req.Remember)
	s.jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token := middleware.TokenFrom(r); token != "" {
		if err := s.board.SignOut(r.Context(), token); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	clearSessionCookie(w)
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "signed_out", "navigate": "/"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	user, err := s.board.Me(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, user)
}

// handleSessionRedirect tells SPA clients where the guard would send them.
func (s *Server) handleSessionRedirect(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		path = "/"
	}
	target := middleware.Redirect(r.Context(), s.accounts, s.roles, middleware.TokenFrom(r), path)
	s.jsonResponse(w, http.StatusOK, map[string]string{"navigate": target})
}

// handlePage answers page requests the guard let through.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"page": r.URL.Path})
}
