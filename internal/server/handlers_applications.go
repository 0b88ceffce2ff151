package server

import (
	"net/http"

	"github.com/jonathan/job-tracker/internal/server/middleware"
	"github.com/jonathan/job-tracker/internal/types"
	"github.com/jonathan/job-tracker/internal/validation"
)

func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	app, created, err := s.board.Apply(r.Context(), middleware.UserIDOrEmpty(r), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	s.jsonResponse(w, status, map[string]any{"application": app, "created": created})
}

func (s *Server) handleMyApplications(w http.ResponseWriter, r *http.Request) {
	tab, ok := types.ParseStatusTab(r.URL.Query().Get("tab"))
	if !ok {
		s.writeError(w, r, validation.Errors{"tab": "Please select a valid tab"})
		return
	}
	apps, err := s.board.ListMyApplications(r.Context(), middleware.UserIDOrEmpty(r), tab)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, apps)
}

func (s *Server) handleRecruiterApplications(w http.ResponseWriter, r *http.Request) {
	rows, err := s.board.ListRecruiterApplications(r.Context(), middleware.UserIDOrEmpty(r), r.URL.Query().Get("status"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"applications": rows, "count": len(rows)})
}

func (s *Server) handleUpdateApplicationStatus(w http.ResponseWriter, r *http.Request) {
	var req types.StatusUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}
	app, err := s.board.UpdateApplicationStatus(r.Context(), middleware.UserIDOrEmpty(r), r.PathValue("id"), req.Status)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, app)
}

func (s *Server) handleToggleSave(w http.ResponseWriter, r *http.Request) {
	saved, err := s.board.ToggleSave(r.Context(), middleware.UserIDOrEmpty(r), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"jobId": r.PathValue("id"), "saved": saved})
}

func (s *Server) handleListSaved(w http.ResponseWriter, r *http.Request) {
	saved, err := s.board.ListSaved(r.Context(), middleware.UserIDOrEmpty(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"savedJobs": saved, "count": len(saved)})
}
