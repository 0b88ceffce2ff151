package repository

import (
	"context"
	"fmt"

	"github.com/jonathan/job-tracker/internal/db"
	"github.com/jonathan/job-tracker/internal/types"
)

func setSavedID(s *types.SavedJob, id string) { s.ID = id }

// GetSavedJob returns a bookmark, or nil if absent.
func (r *Repository) GetSavedJob(ctx context.Context, id string) (*types.SavedJob, error) {
	var s types.SavedJob
	found, err := r.get(ctx, types.CollectionSavedJobs, id, &s)
	if err != nil || !found {
		return nil, err
	}
	s.ID = id
	return &s, nil
}

// CreateSavedJob writes savedJobs/{userId}_{jobId}.
func (r *Repository) CreateSavedJob(ctx context.Context, s *types.SavedJob) error {
	s.ID = types.SavedJobID(s.UserID, s.JobID)
	if err := r.put(ctx, types.CollectionSavedJobs, s.ID, s); err != nil {
		return fmt.Errorf("failed to save job: %w", err)
	}
	return nil
}

// DeleteSavedJob removes a bookmark.
func (r *Repository) DeleteSavedJob(ctx context.Context, id string) error {
	return r.store.Delete(ctx, types.CollectionSavedJobs, id)
}

// ListSavedJobs returns a user's bookmarks, newest first. limit 0 means all.
func (r *Repository) ListSavedJobs(ctx context.Context, userID string, limit int) ([]types.SavedJob, error) {
	docs, err := r.store.Find(ctx, types.CollectionSavedJobs, db.Query{
		Where:   []db.Filter{db.Eq("userId", userID)},
		OrderBy: "savedAt",
		Desc:    true,
		Limit:   limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list saved jobs: %w", err)
	}
	return decodeAll(docs, setSavedID)
}

// CountSavedJobs counts a user's bookmarks.
func (r *Repository) CountSavedJobs(ctx context.Context, userID string) (int, error) {
	return r.store.Count(ctx, types.CollectionSavedJobs, db.Eq("userId", userID))
}
