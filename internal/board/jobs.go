package board

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jonathan/job-tracker/internal/dashboard"
	"github.com/jonathan/job-tracker/internal/listing"
	"github.com/jonathan/job-tracker/internal/types"
	"github.com/jonathan/job-tracker/internal/validation"
)

// normalizeDeadline stores deadlines as calendar dates.
func normalizeDeadline(raw string) string {
	t, ok := validation.ParseISO8601(raw)
	if !ok {
		return strings.TrimSpace(raw)
	}
	return t.Format(types.DateLayout)
}

func atoi(v types.FormValue) int {
	n, _ := strconv.Atoi(v.Trimmed())
	return n
}

// PostJob creates a posting owned by the recruiter.
func (s *Service) PostJob(ctx context.Context, recruiterID string, req *types.PostJobRequest) (*types.Job, error) {
	if err := s.requireRole(ctx, recruiterID, types.RoleRecruiter); err != nil {
		return nil, err
	}
	if errs := validation.ValidatePostJob(req); len(errs) > 0 {
		return nil, errs
	}

	experience := types.ExperienceLevel(req.Experience.Trimmed())
	years := atoi(req.Years)
	if years < 0 {
		years = 0
	}

	job := &types.Job{
		Title:       sanitizeText(req.Title.String()),
		Description: sanitizeDescription(req.Description.String()),
		Location:    sanitizeText(req.Location.String()),
		Type:        sanitizeText(req.Type.String()),
		Openings:    atoi(req.Openings),
		Skills:      types.SplitSkills(sanitizeText(req.Skills.String())),
		Experience:  experience,
		Years:       years,
		Status:      types.JobStatus(req.Status.Trimmed()),
		Deadline:    normalizeDeadline(req.Deadline.String()),
		CreatedAt:   types.NewTimestamp(s.now()),
		Company:     sanitizeText(req.Company.String()),
		RecruiterID: recruiterID,
	}
	if job.Status == types.JobClosed {
		job.Openings = 0
	}
	if _, err := s.repo.CreateJob(ctx, job); err != nil {
		return nil, err
	}
	s.log.Info("job posted", "job_id", job.ID, "recruiter_id", recruiterID)
	return job, nil
}

// EditJob replaces the editable fields of a recruiter's own posting.
func (s *Service) EditJob(ctx context.Context, recruiterID, jobID string, req *types.EditJobRequest) (*types.Job, error) {
	job, err := s.ownedJob(ctx, recruiterID, jobID)
	if err != nil {
		return nil, err
	}
	if errs := validation.ValidateEditJob(req); len(errs) > 0 {
		return nil, errs
	}

	job.Title = sanitizeText(req.Title.String())
	job.Description = sanitizeDescription(req.Description.String())
	job.Location = sanitizeText(req.Location.String())
	job.Openings = atoi(req.Openings)
	job.Skills = types.SplitSkills(sanitizeText(req.Skills.String()))
	job.Status = types.JobStatus(req.Status.Trimmed())
	job.Deadline = normalizeDeadline(req.Deadline.String())
	if job.Status == types.JobClosed {
		job.Openings = 0
	}

	if err := s.repo.SaveJob(ctx, job); err != nil {
		return nil, err
	}
	s.log.Info("job edited", "job_id", jobID, "recruiter_id", recruiterID)
	return job, nil
}

// CloseJob closes a recruiter's own posting and zeroes its openings.
func (s *Service) CloseJob(ctx context.Context, recruiterID, jobID string) (*types.Job, error) {
	job, err := s.ownedJob(ctx, recruiterID, jobID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.MergeJob(ctx, jobID, map[string]any{
		"status":   types.JobClosed,
		"openings": 0,
	}); err != nil {
		return nil, fmt.Errorf("failed to close job %s: %w", jobID, err)
	}
	job.Status = types.JobClosed
	job.Openings = 0
	s.log.Info("job closed", "job_id", jobID, "recruiter_id", recruiterID)
	return job, nil
}

// GetJob returns one posting, closing it first if its deadline has passed.
func (s *Service) GetJob(ctx context.Context, jobID string) (*types.Job, error) {
	job, err := s.repo.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, &ErrNotFound{Kind: "job", ID: jobID}
	}
	reconciled := s.sweeper.Reconcile(ctx, []types.Job{*job})
	return &reconciled[0], nil
}

// ListRecruiterJobs returns the recruiter's postings filtered by search term and status.
func (s *Service) ListRecruiterJobs(ctx context.Context, recruiterID, term string, status listing.StatusFilter) ([]listing.RecruiterJobView, error) {
	if err := s.requireRole(ctx, recruiterID, types.RoleRecruiter); err != nil {
		return nil, err
	}
	jobs, err := s.repo.ListJobsByRecruiter(ctx, recruiterID)
	if err != nil {
		return nil, err
	}
	jobs = s.sweeper.Reconcile(ctx, jobs)
	return listing.RecruiterList(jobs, s.sweeper.Now(), term, status), nil
}

// BrowseJobs returns the open postings matching term. Expired postings are
// closed on the way. userID may be empty for anonymous browsing.
func (s *Service) BrowseJobs(ctx context.Context, userID, term string) ([]listing.JobView, error) {
	jobs, err := s.repo.ListJobs(ctx)
	if err != nil {
		return nil, err
	}
	return s.BrowseSnapshot(ctx, jobs, userID, term), nil
}

// BrowseSnapshot builds the browse view over an already fetched snapshot.
// Failing to load the user's saved or applied flags leaves them unset.
func (s *Service) BrowseSnapshot(ctx context.Context, jobs []types.Job, userID, term string) []listing.JobView {
	jobs = s.sweeper.Reconcile(ctx, jobs)

	var saved, applied map[string]bool
	if userID != "" {
		var err error
		if saved, err = s.SavedIDs(ctx, userID); err != nil {
			s.log.Warn("failed to load saved jobs", "user_id", userID, "error", err)
		}
		if applied, err = s.AppliedIDs(ctx, userID); err != nil {
			s.log.Warn("failed to load applications", "user_id", userID, "error", err)
		}
	}
	return listing.Browse(jobs, s.sweeper.Now(), term, saved, applied)
}

// WatchJobs streams a browse view per change of the job collection until ctx ends.
func (s *Service) WatchJobs(ctx context.Context, userID, term string) (<-chan []listing.JobView, error) {
	snapshots, err := s.repo.WatchJobs(ctx)
	if err != nil {
		return nil, err
	}
	out := make(chan []listing.JobView)
	go func() {
		defer close(out)
		for jobs := range snapshots {
			sort.SliceStable(jobs, func(i, j int) bool {
				return jobs[i].CreatedAt.After(jobs[j].CreatedAt.Time)
			})
			view := s.BrowseSnapshot(ctx, jobs, userID, term)
			select {
			case out <- view:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// QuickPicks returns the newest postings that are still open.
func (s *Service) QuickPicks(ctx context.Context) ([]types.Job, error) {
	jobs, err := s.repo.LatestJobs(ctx, dashboard.QuickPickSize)
	if err != nil {
		return nil, err
	}
	return listing.ActiveOnly(jobs), nil
}
