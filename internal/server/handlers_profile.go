package server

import (
	"net/http"
	"strconv"

	"github.com/jonathan/job-tracker/internal/server/middleware"
	"github.com/jonathan/job-tracker/internal/types"
	"github.com/jonathan/job-tracker/internal/validation"
)

func (s *Server) handleRecruiterProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.board.GetRecruiterProfile(r.Context(), middleware.UserIDOrEmpty(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, p)
}

func (s *Server) handleApplierProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.board.GetApplierProfile(r.Context(), middleware.UserIDOrEmpty(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, p)
}

func (s *Server) handleUpdateApplierField(w http.ResponseWriter, r *http.Request) {
	var req types.FieldUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := s.board.UpdateApplierField(r.Context(), middleware.UserIDOrEmpty(r), req.Field, req.Value.String())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, p)
}

func (s *Server) handleAddExperience(w http.ResponseWriter, r *http.Request) {
	var req types.WorkExperienceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	p, err := s.board.AddWorkExperience(r.Context(), middleware.UserIDOrEmpty(r), &req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, p)
}

func (s *Server) handleUpdateExperience(w http.ResponseWriter, r *http.Request) {
	index, ok := s.experienceIndex(w, r)
	if !ok {
		return
	}
	var req types.WorkExperienceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	p, err := s.board.UpdateWorkExperience(r.Context(), middleware.UserIDOrEmpty(r), index, &req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, p)
}

func (s *Server) handleDeleteExperience(w http.ResponseWriter, r *http.Request) {
	index, ok := s.experienceIndex(w, r)
	if !ok {
		return
	}
	p, err := s.board.DeleteWorkExperience(r.Context(), middleware.UserIDOrEmpty(r), index)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, p)
}

func (s *Server) experienceIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil || index < 0 {
		s.errorResponse(w, http.StatusBadRequest, "Invalid experience index")
		return 0, false
	}
	return index, true
}

// handleValidateField checks one profile field as the user types.
func (s *Server) handleValidateField(w http.ResponseWriter, r *http.Request) {
	var req types.FieldUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	msg := validation.ValidateField(req.Field, req.Value.String())
	s.jsonResponse(w, http.StatusOK, map[string]any{"field": req.Field, "valid": msg == "", "error": msg})
}
