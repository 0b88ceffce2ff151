package repository

import (
	"context"
	"fmt"

	"github.com/jonathan/job-tracker/internal/db"
	"github.com/jonathan/job-tracker/internal/types"
)

func setApplicationID(a *types.Application, id string) { a.ID = id }

// CreateApplication writes applications/{userId}_{jobId}.
func (r *Repository) CreateApplication(ctx context.Context, a *types.Application) error {
	a.ID = types.ApplicationID(a.UserID, a.JobID)
	if err := r.put(ctx, types.CollectionApplications, a.ID, a); err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	return nil
}

// GetApplication returns an application, or nil if absent.
func (r *Repository) GetApplication(ctx context.Context, id string) (*types.Application, error) {
	var a types.Application
	found, err := r.get(ctx, types.CollectionApplications, id, &a)
	if err != nil || !found {
		return nil, err
	}
	a.ID = id
	return &a, nil
}

// UpdateApplicationStatus sets the status field of an existing application.
func (r *Repository) UpdateApplicationStatus(ctx context.Context, id string, status types.ApplicationStatus) error {
	return r.update(ctx, types.CollectionApplications, id, map[string]any{"status": status})
}

// ListApplicationsByUser returns an applier's applications, newest first.
func (r *Repository) ListApplicationsByUser(ctx context.Context, userID string) ([]types.Application, error) {
	return r.findApplications(ctx, db.Query{
		Where:   []db.Filter{db.Eq("userId", userID)},
		OrderBy: "appliedAt",
		Desc:    true,
	})
}

// ListApplicationsByJob returns the applications to one posting.
func (r *Repository) ListApplicationsByJob(ctx context.Context, jobID string) ([]types.Application, error) {
	return r.findApplications(ctx, db.Query{
		Where:   []db.Filter{db.Eq("jobId", jobID)},
		OrderBy: "appliedAt",
		Desc:    true,
	})
}

// ListApplications returns every application, newest first.
func (r *Repository) ListApplications(ctx context.Context) ([]types.Application, error) {
	return r.findApplications(ctx, db.Query{OrderBy: "appliedAt", Desc: true})
}

// CountApplications counts an applier's applications, optionally with an
// exact stored status value.
func (r *Repository) CountApplications(ctx context.Context, userID string, status string) (int, error) {
	where := []db.Filter{db.Eq("userId", userID)}
	if status != "" {
		where = append(where, db.Eq("status", status))
	}
	return r.store.Count(ctx, types.CollectionApplications, where...)
}

func (r *Repository) findApplications(ctx context.Context, q db.Query) ([]types.Application, error) {
	docs, err := r.store.Find(ctx, types.CollectionApplications, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return decodeAll(docs, setApplicationID)
}
