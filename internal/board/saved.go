package board

import (
	"context"

	"github.com/jonathan/job-tracker/internal/types"
)

// ToggleSave bookmarks the job, or removes the bookmark if present. It
// returns whether the job is saved afterwards.
func (s *Service) ToggleSave(ctx context.Context, userID, jobID string) (bool, error) {
	if userID == "" {
		return false, &ErrForbidden{Reason: "sign in required"}
	}

	id := types.SavedJobID(userID, jobID)
	existing, err := s.repo.GetSavedJob(ctx, id)
	if err != nil {
		return false, err
	}
	if existing != nil {
		if err := s.repo.DeleteSavedJob(ctx, id); err != nil {
			return true, err
		}
		return false, nil
	}

	job, err := s.repo.GetJob(ctx, jobID)
	if err != nil {
		return false, err
	}
	if job == nil {
		return false, &ErrNotFound{Kind: "job", ID: jobID}
	}
	if err := s.repo.CreateSavedJob(ctx, &types.SavedJob{
		UserID:  userID,
		JobID:   jobID,
		SavedAt: types.NewTimestamp(s.now()),
	}); err != nil {
		return false, err
	}
	return true, nil
}

// SavedView is a bookmark with the job it points to. Job is nil when the
// posting no longer exists.
type SavedView struct {
	types.SavedJob
	Job *types.Job `json:"job"`
}

// ListSaved returns the user's bookmarks, newest first.
func (s *Service) ListSaved(ctx context.Context, userID string) ([]SavedView, error) {
	saved, err := s.repo.ListSavedJobs(ctx, userID, 0)
	if err != nil {
		return nil, err
	}
	out := make([]SavedView, 0, len(saved))
	for _, sj := range saved {
		job, err := s.repo.GetJob(ctx, sj.JobID)
		if err != nil {
			return nil, err
		}
		out = append(out, SavedView{SavedJob: sj, Job: job})
	}
	return out, nil
}

// SavedIDs returns the ids of the jobs the user saved.
func (s *Service) SavedIDs(ctx context.Context, userID string) (map[string]bool, error) {
	saved, err := s.repo.ListSavedJobs(ctx, userID, 0)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]bool, len(saved))
	for _, sj := range saved {
		ids[sj.JobID] = true
	}
	return ids, nil
}
