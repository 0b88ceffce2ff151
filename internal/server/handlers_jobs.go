package server

import (
	"net/http"
	"time"

	"github.com/jonathan/job-tracker/internal/listing"
	"github.com/jonathan/job-tracker/internal/server/middleware"
	"github.com/jonathan/job-tracker/internal/types"
	"github.com/jonathan/job-tracker/internal/validation"
)

func (s *Server) handleBrowseJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.board.BrowseJobs(r.Context(), middleware.UserIDOrEmpty(r), r.URL.Query().Get("q"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"jobs": jobs, "count": len(jobs)})
}

// handleJobStream pushes a fresh listing on every change to the job
// collection until the client goes away.
func (s *Server) handleJobStream(w http.ResponseWriter, r *http.Request) {
	stream, err := openEventStream(w, s.corsOrigin)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	ctx := r.Context()
	views, err := s.board.WatchJobs(ctx, middleware.UserIDOrEmpty(r), r.URL.Query().Get("q"))
	if err != nil {
		s.log.Error("failed to subscribe to jobs", "error", err)
		stream.Fail("subscription failed")
		return
	}

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.draining:
			return
		case <-ticker.C:
			if err := stream.Heartbeat(); err != nil {
				return
			}
		case jobs, ok := <-views:
			if !ok {
				return
			}
			if err := stream.Send("jobs", jobs); err != nil {
				s.log.Debug("job stream closed", "error", err)
				return
			}
		}
	}
}

func (s *Server) handleQuickPicks(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.board.QuickPicks(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"jobs": jobs})
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.board.GetJob(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, job)
}

func (s *Server) handlePostJob(w http.ResponseWriter, r *http.Request) {
	var req types.PostJobRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	job, err := s.board.PostJob(r.Context(), middleware.UserIDOrEmpty(r), &req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, job)
}

func (s *Server) handleRecruiterJobs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	status, ok := listing.ParseStatusFilter(q.Get("status"))
	if !ok {
		s.writeError(w, r, validation.Errors{"status": "Status must be all, active or closed"})
		return
	}
	jobs, err := s.board.ListRecruiterJobs(r.Context(), middleware.UserIDOrEmpty(r), q.Get("q"), status)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"jobs": jobs, "count": len(jobs)})
}

func (s *Server) handleEditJob(w http.ResponseWriter, r *http.Request) {
	var req types.EditJobRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	job, err := s.board.EditJob(r.Context(), middleware.UserIDOrEmpty(r), r.PathValue("id"), &req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, job)
}

func (s *Server) handleCloseJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.board.CloseJob(r.Context(), middleware.UserIDOrEmpty(r), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, job)
}
