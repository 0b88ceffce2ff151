// Package server provides the HTTP JSON API of the job tracker.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/jonathan/job-tracker/internal/auth"
	"github.com/jonathan/job-tracker/internal/board"
	"github.com/jonathan/job-tracker/internal/config"
	"github.com/jonathan/job-tracker/internal/dashboard"
	"github.com/jonathan/job-tracker/internal/logging"
	"github.com/jonathan/job-tracker/internal/server/middleware"
	"github.com/jonathan/job-tracker/internal/server/ratelimit"
)

// Deps are the services the server routes to.
type Deps struct {
	Config    *config.Config
	JWT       *config.JWTConfig
	Board     *board.Service
	Dashboard *dashboard.Service
	Accounts  *auth.Provider
	Roles     middleware.RoleResolver
	Limiter   *ratelimit.Limiter // nil disables rate limiting
	Log       *logging.Logger
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	handler    http.Handler
	board      *board.Service
	dashboard  *dashboard.Service
	accounts   *auth.Provider
	roles      middleware.RoleResolver
	limiter    *ratelimit.Limiter
	jwt        *config.JWTConfig
	corsOrigin string
	log        *logging.Logger

	// draining is closed on shutdown so long-lived streams return.
	draining  chan struct{}
	drainOnce sync.Once
}

// New creates a new server instance
func New(d Deps) *Server {
	log := d.Log
	if log == nil {
		log = logging.NewNop()
	}
	cfg := d.Config
	if cfg == nil {
		cfg = &config.Config{}
	}
	origin := cfg.CORSOrigin
	if origin == "" {
		origin = "*"
	}

	s := &Server{
		board:      d.Board,
		dashboard:  d.Dashboard,
		accounts:   d.Accounts,
		roles:      d.Roles,
		limiter:    d.Limiter,
		jwt:        d.JWT,
		corsOrigin: origin,
		log:        log.Named("http"),
		draining:   make(chan struct{}),
	}

	authed := middleware.Authenticate(d.Accounts)
	optional := middleware.Optional(d.Accounts)
	private := func(h http.HandlerFunc) http.Handler { return authed(h) }
	public := func(h http.HandlerFunc) http.Handler { return optional(h) }

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// Pages
	page := middleware.Guard(d.Accounts, d.Roles, http.HandlerFunc(s.handlePage))
	mux.Handle("GET /{$}", page)
	mux.Handle("GET /applier-dashboard", page)
	mux.Handle("GET /recruiter-dashboard", page)
	mux.HandleFunc("GET /session/redirect", s.handleSessionRedirect)

	// Auth
	mux.HandleFunc("POST /auth/signup", s.handleSignup)
	mux.HandleFunc("POST /auth/login", s.handleLogin)
	mux.HandleFunc("POST /auth/logout", s.handleLogout)
	mux.Handle("GET /auth/me", private(s.handleMe))

	// Jobs
	mux.Handle("GET /jobs", public(s.handleBrowseJobs))
	mux.Handle("GET /jobs/stream", public(s.handleJobStream))
	mux.HandleFunc("GET /jobs/quick-picks", s.handleQuickPicks)
	mux.HandleFunc("GET /jobs/{id}", s.handleGetJob)
	mux.Handle("POST /recruiter/jobs", private(s.handlePostJob))
	mux.Handle("GET /recruiter/jobs", private(s.handleRecruiterJobs))
	mux.Handle("PUT /recruiter/jobs/{id}", private(s.handleEditJob))
	mux.Handle("POST /recruiter/jobs/{id}/close", private(s.handleCloseJob))

	// Applications
	mux.Handle("POST /jobs/{id}/apply", private(s.handleApply))
	mux.Handle("GET /applications", private(s.handleMyApplications))
	mux.Handle("GET /recruiter/applications", private(s.handleRecruiterApplications))
	mux.Handle("PUT /recruiter/applications/{id}/status", private(s.handleUpdateApplicationStatus))

	// Saved jobs
	mux.Handle("POST /jobs/{id}/save", private(s.handleToggleSave))
	mux.Handle("GET /saved-jobs", private(s.handleListSaved))

	// Dashboards
	mux.Handle("GET /dashboard/applier", private(s.handleApplierDashboard))
	mux.Handle("GET /dashboard/recruiter", private(s.handleRecruiterDashboard))

	// Profiles
	mux.Handle("GET /profile/recruiter", private(s.handleRecruiterProfile))
	mux.Handle("GET /profile/applier", private(s.handleApplierProfile))
	mux.Handle("PATCH /profile/applier", private(s.handleUpdateApplierField))
	mux.Handle("POST /profile/applier/experience", private(s.handleAddExperience))
	mux.Handle("PUT /profile/applier/experience/{index}", private(s.handleUpdateExperience))
	mux.Handle("DELETE /profile/applier/experience/{index}", private(s.handleDeleteExperience))

	mux.HandleFunc("POST /validate/field", s.handleValidateField)

	s.handler = s.withRateLimit(s.withLogging(s.withCORS(mux)))
	port := cfg.Port
	if port == 0 {
		port = 8080
	}
	// No WriteTimeout: /jobs/stream stays open for the life of the client.
	s.httpServer = &http.Server{
		Addr:        fmt.Sprintf(":%d", port),
		Handler:     s.handler,
		ReadTimeout: 30 * time.Second,
		IdleTimeout: 60 * time.Second,
	}
	s.httpServer.RegisterOnShutdown(s.drain)
	return s
}

// Handler returns the fully wrapped router.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves until ctx is cancelled, then shuts down within timeout.
func (s *Server) Run(ctx context.Context, timeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server starting", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

// Shutdown ends open job streams, stops accepting requests and waits for
// in-flight ones. The rate limiter is stopped even when waiting times out.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.limiter != nil {
		defer s.limiter.Stop()
	}
	s.drain()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.log.Info("server stopped")
	return nil
}

func (s *Server) drain() {
	s.drainOnce.Do(func() { close(s.draining) })
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.corsOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if s.corsOrigin != "*" {
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder remembers the response status for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	if s.limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.limiter.Allow(clientID(r), r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientID identifies the caller by remote IP.
func clientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}
	if !info.ResetTime.IsZero() {
		response["reset_at"] = info.ResetTime.Format(time.RFC3339)
	}
	if info.RetryAfter > 0 {
		secs := int(info.RetryAfter.Seconds())
		if secs < 1 {
			secs = 1
		}
		response["retry_after"] = secs
		w.Header().Set("Retry-After", strconv.Itoa(secs))
	}

	s.log.Warn("rate limit exceeded", "client", clientID(r), "method", r.Method, "path", r.URL.Path, "limit", info.Limit)
	s.jsonResponse(w, http.StatusTooManyRequests, response)
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("failed to encode JSON response", "error", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

const maxBodyBytes = 1 << 20

// decodeJSON reads the request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}
