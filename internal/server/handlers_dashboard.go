package server

import (
	"net/http"

	"github.com/jonathan/job-tracker/internal/server/middleware"
	"github.com/jonathan/job-tracker/internal/types"
	"github.com/jonathan/job-tracker/internal/validation"
)

// Dashboards always answer 200; widgets that failed to load are listed in
// the response's degraded field.

func (s *Server) handleApplierDashboard(w http.ResponseWriter, r *http.Request) {
	tab, ok := types.ParseStatusTab(r.URL.Query().Get("tab"))
	if !ok {
		s.writeError(w, r, validation.Errors{"tab": "Please select a valid tab"})
		return
	}
	s.jsonResponse(w, http.StatusOK, s.dashboard.Applier(r.Context(), middleware.UserIDOrEmpty(r), tab))
}

func (s *Server) handleRecruiterDashboard(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.dashboard.Recruiter(r.Context(), middleware.UserIDOrEmpty(r)))
}
