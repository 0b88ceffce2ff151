package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/job-tracker/internal/auth"
	"github.com/jonathan/job-tracker/internal/board"
	"github.com/jonathan/job-tracker/internal/schemas"
	"github.com/jonathan/job-tracker/internal/validation"
)

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		fields        validation.Errors
		schemaErr     *schemas.ValidationError
		structErr     validator.ValidationErrors
		emailTaken    *auth.ErrEmailAlreadyExists
		badCredential *auth.ErrInvalidCredentials
		badToken      *auth.ErrInvalidToken
		noUser        *auth.ErrUserNotFound
		notFound      *board.ErrNotFound
		forbidden     *board.ErrForbidden
		conflict      *board.ErrConflict
	)
	switch {
	case errors.As(err, &fields), errors.As(err, &schemaErr), errors.As(err, &structErr):
		return http.StatusBadRequest
	case errors.As(err, &emailTaken), errors.As(err, &conflict):
		return http.StatusConflict
	case errors.As(err, &badCredential), errors.As(err, &badToken):
		return http.StatusUnauthorized
	case errors.As(err, &noUser), errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &forbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// fieldErrors turns request struct tag failures into per-field messages.
func fieldErrors(err validator.ValidationErrors) validation.Errors {
	out := validation.Errors{}
	for _, fe := range err {
		name := fe.Field()
		if name != "" {
			name = strings.ToLower(name[:1]) + name[1:]
		}
		switch fe.Tag() {
		case "required":
			out[name] = "This field is required"
		case "email":
			out[name] = "Please enter a valid email"
		default:
			out[name] = "Invalid value"
		}
	}
	return out
}

// writeError maps err to a status and writes the JSON error body. Internal
// failures are logged and reported without detail.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var structErr validator.ValidationErrors
	if errors.As(err, &structErr) {
		err = fieldErrors(structErr)
	}

	status := HTTPStatus(err)

	var fields validation.Errors
	if errors.As(err, &fields) {
		s.jsonResponse(w, status, map[string]any{"error": "validation failed", "fields": fields})
		return
	}

	var schemaErr *schemas.ValidationError
	if errors.As(err, &schemaErr) {
		out := validation.Errors{}
		for _, fe := range schemaErr.Errors {
			out[fe.Field] = fe.Message
		}
		s.jsonResponse(w, status, map[string]any{"error": "validation failed", "fields": out})
		return
	}

	if status == http.StatusInternalServerError {
		s.log.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		s.errorResponse(w, status, "internal error")
		return
	}
	s.errorResponse(w, status, err.Error())
}
