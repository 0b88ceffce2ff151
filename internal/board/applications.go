package board

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/job-tracker/internal/dashboard"
	"github.com/jonathan/job-tracker/internal/repository"
	"github.com/jonathan/job-tracker/internal/types"
	"github.com/jonathan/job-tracker/internal/validation"
)

// Apply records an application by the applier to the job. Applying again
// returns the existing application unchanged with created=false.
func (s *Service) Apply(ctx context.Context, userID, jobID string) (app *types.Application, created bool, err error) {
	if err := s.requireRole(ctx, userID, types.RoleApplier); err != nil {
		return nil, false, err
	}

	id := types.ApplicationID(userID, jobID)
	existing, err := s.repo.GetApplication(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	job, err := s.GetJob(ctx, jobID)
	if err != nil {
		return nil, false, err
	}
	if !job.IsActive() {
		return nil, false, &ErrConflict{Reason: "job is closed"}
	}

	app = &types.Application{
		UserID:     userID,
		JobID:      jobID,
		Status:     string(types.StatusApplied),
		AppliedAt:  types.NewTimestamp(s.now()),
		Title:      job.Title,
		Location:   job.Location,
		Experience: job.Experience,
	}
	if err := s.repo.CreateApplication(ctx, app); err != nil {
		return nil, false, err
	}
	s.log.Info("application submitted", "application_id", app.ID, "job_id", jobID, "user_id", userID)
	return app, true, nil
}

// MyApplications is the applier's application list under one tab.
type MyApplications struct {
	Tab          types.StatusTab      `json:"tab"`
	Counts       []dashboard.TabCount `json:"counts"`
	Applications []ApplicationView    `json:"applications"`
}

// ApplicationView adds the display label of the status.
type ApplicationView struct {
	types.Application
	StatusLabel string `json:"statusLabel"`
}

func viewOf(a types.Application) ApplicationView {
	return ApplicationView{Application: a, StatusLabel: a.CanonicalStatus().Label()}
}

// ListMyApplications returns the applier's applications filtered by tab, with per-tab counts.
func (s *Service) ListMyApplications(ctx context.Context, userID string, tab types.StatusTab) (*MyApplications, error) {
	apps, err := s.repo.ListApplicationsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	filtered := dashboard.FilterByTab(apps, tab)
	views := make([]ApplicationView, 0, len(filtered))
	for _, a := range filtered {
		views = append(views, viewOf(a))
	}
	return &MyApplications{Tab: tab, Counts: dashboard.CountByTab(apps), Applications: views}, nil
}

// AppliedIDs returns the ids of the jobs the user applied to.
func (s *Service) AppliedIDs(ctx context.Context, userID string) (map[string]bool, error) {
	apps, err := s.repo.ListApplicationsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]bool, len(apps))
	for _, a := range apps {
		ids[a.JobID] = true
	}
	return ids, nil
}

// Applicant is the part of an applier profile shown to recruiters.
type Applicant struct {
	FullName      string `json:"fullName"`
	Email         string `json:"email"`
	Mobile        string `json:"mobile,omitempty"`
	Qualification string `json:"qualification,omitempty"`
	Skills        string `json:"skills,omitempty"`
	LinkedIn      string `json:"linkedin,omitempty"`
}

// ApplicationRow is an application joined with its job and applicant.
type ApplicationRow struct {
	ApplicationView
	JobTitle  string     `json:"jobTitle"`
	Company   string     `json:"company"`
	Applicant *Applicant `json:"applicant"`
}

// ListRecruiterApplications returns the applications to the recruiter's jobs,
// newest first. status may be empty or "all" for every status.
func (s *Service) ListRecruiterApplications(ctx context.Context, recruiterID, status string) ([]ApplicationRow, error) {
	if err := s.requireRole(ctx, recruiterID, types.RoleRecruiter); err != nil {
		return nil, err
	}

	var want types.ApplicationStatus
	if raw := strings.TrimSpace(status); raw != "" && !strings.EqualFold(raw, "all") {
		parsed, ok := types.ParseApplicationStatus(raw)
		if !ok {
			return nil, validation.Errors{"status": "Please select a valid status"}
		}
		want = parsed
	}

	jobs, err := s.repo.ListJobsByRecruiter(ctx, recruiterID)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*types.Job, len(jobs))
	for i := range jobs {
		byID[jobs[i].ID] = &jobs[i]
	}

	var apps []types.Application
	for _, job := range jobs {
		forJob, err := s.repo.ListApplicationsByJob(ctx, job.ID)
		if err != nil {
			return nil, err
		}
		apps = append(apps, forJob...)
	}
	sort.SliceStable(apps, func(i, j int) bool {
		return apps[i].AppliedAt.After(apps[j].AppliedAt.Time)
	})

	applicants := map[string]*Applicant{}
	rows := make([]ApplicationRow, 0)
	for _, a := range apps {
		job, ok := byID[a.JobID]
		if !ok {
			continue
		}
		if want != "" && a.CanonicalStatus() != want {
			continue
		}
		applicant, seen := applicants[a.UserID]
		if !seen {
			applicant = s.applicant(ctx, a.UserID)
			applicants[a.UserID] = applicant
		}
		rows = append(rows, ApplicationRow{
			ApplicationView: viewOf(a),
			JobTitle:        job.Title,
			Company:         job.Company,
			Applicant:       applicant,
		})
	}
	return rows, nil
}

// applicant loads the applicant summary; missing or unreadable profiles yield nil.
func (s *Service) applicant(ctx context.Context, userID string) *Applicant {
	p, err := s.repo.GetApplier(ctx, userID)
	if err != nil {
		s.log.Warn("failed to load applicant", "user_id", userID, "error", err)
		return nil
	}
	if p == nil {
		return nil
	}
	return &Applicant{
		FullName:      p.FullName,
		Email:         p.Email,
		Mobile:        p.Mobile,
		Qualification: p.Qualification,
		Skills:        p.Skills,
		LinkedIn:      p.LinkedIn,
	}
}

// UpdateApplicationStatus changes the status of an application to one of the
// recruiter's jobs.
func (s *Service) UpdateApplicationStatus(ctx context.Context, recruiterID, applicationID, status string) (*types.Application, error) {
	next, ok := types.ParseApplicationStatus(status)
	if !ok || !next.RecruiterSettable() {
		return nil, validation.Errors{"status": "Please select a valid status"}
	}

	app, err := s.repo.GetApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, &ErrNotFound{Kind: "application", ID: applicationID}
	}
	if _, err := s.ownedJob(ctx, recruiterID, app.JobID); err != nil {
		var nf *ErrNotFound
		if errors.As(err, &nf) {
			return nil, &ErrForbidden{Reason: "application is for a job you do not own"}
		}
		return nil, err
	}

	if err := s.repo.UpdateApplicationStatus(ctx, applicationID, next); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &ErrNotFound{Kind: "application", ID: applicationID}
		}
		return nil, fmt.Errorf("failed to update application status: %w", err)
	}
	app.Status = string(next)
	s.log.Info("application status updated", "application_id", applicationID, "status", next)
	return app, nil
}
