package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/job-tracker/internal/db"
	"github.com/jonathan/job-tracker/internal/types"
)

func setJobID(j *types.Job, id string) { j.ID = id }

// CreateJob stores a new posting and returns its id.
func (r *Repository) CreateJob(ctx context.Context, job *types.Job) (string, error) {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.Skills == nil {
		job.Skills = []string{}
	}
	if err := r.put(ctx, types.CollectionJobs, job.ID, job); err != nil {
		return "", fmt.Errorf("failed to create job: %w", err)
	}
	return job.ID, nil
}

// SaveJob replaces a posting with the given value.
func (r *Repository) SaveJob(ctx context.Context, job *types.Job) error {
	if err := r.put(ctx, types.CollectionJobs, job.ID, job); err != nil {
		return fmt.Errorf("failed to save job %s: %w", job.ID, err)
	}
	return nil
}

// MergeJob overlays fields on a posting, creating it if missing.
func (r *Repository) MergeJob(ctx context.Context, id string, fields map[string]any) error {
	return r.store.Set(ctx, types.CollectionJobs, id, fields, true)
}

// GetJob returns a posting, or nil if absent.
func (r *Repository) GetJob(ctx context.Context, id string) (*types.Job, error) {
	var j types.Job
	found, err := r.get(ctx, types.CollectionJobs, id, &j)
	if err != nil || !found {
		return nil, err
	}
	j.ID = id
	return &j, nil
}

// ListJobs returns every posting, newest first.
func (r *Repository) ListJobs(ctx context.Context) ([]types.Job, error) {
	return r.findJobs(ctx, db.Query{OrderBy: "createdAt", Desc: true})
}

// ListJobsByRecruiter returns the recruiter's postings, newest first.
func (r *Repository) ListJobsByRecruiter(ctx context.Context, recruiterID string) ([]types.Job, error) {
	return r.findJobs(ctx, db.Query{
		Where:   []db.Filter{db.Eq("recruiterId", recruiterID)},
		OrderBy: "createdAt",
		Desc:    true,
	})
}

// LatestJobs returns up to limit postings ordered by creation time, newest first.
func (r *Repository) LatestJobs(ctx context.Context, limit int) ([]types.Job, error) {
	return r.findJobs(ctx, db.Query{OrderBy: "createdAt", Desc: true, Limit: limit})
}

// CountJobsByRecruiter counts the recruiter's postings on the server.
func (r *Repository) CountJobsByRecruiter(ctx context.Context, recruiterID string) (int, error) {
	return r.store.Count(ctx, types.CollectionJobs, db.Eq("recruiterId", recruiterID))
}

func (r *Repository) findJobs(ctx context.Context, q db.Query) ([]types.Job, error) {
	docs, err := r.store.Find(ctx, types.CollectionJobs, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return decodeAll(docs, setJobID)
}

// WatchJobs streams the full job collection on every change until ctx ends.
// Snapshots that fail to decode are skipped.
func (r *Repository) WatchJobs(ctx context.Context) (<-chan []types.Job, error) {
	in, err := r.store.Watch(ctx, types.CollectionJobs)
	if err != nil {
		return nil, fmt.Errorf("failed to watch jobs: %w", err)
	}
	out := make(chan []types.Job)
	go func() {
		defer close(out)
		for docs := range in {
			jobs, err := decodeAll(docs, setJobID)
			if err != nil {
				continue
			}
			select {
			case out <- jobs:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
