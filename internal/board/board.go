// Package board implements the job board operations: posting and managing
// jobs, applying, saving, status updates, profiles and account flows.
package board

import (
	"context"
	"time"

	"github.com/jonathan/job-tracker/internal/auth"
	"github.com/jonathan/job-tracker/internal/listing"
	"github.com/jonathan/job-tracker/internal/logging"
	"github.com/jonathan/job-tracker/internal/repository"
	"github.com/jonathan/job-tracker/internal/types"
)

// RoleResolver maps a user id to a role.
type RoleResolver interface {
	Resolve(ctx context.Context, userID string) types.Role
}

// Service runs board operations against the repository.
type Service struct {
	repo     *repository.Repository
	accounts *auth.Provider
	roles    RoleResolver
	sweeper  *listing.Sweeper
	log      *logging.Logger
	now      func() time.Time
}

// New creates a Service.
func New(repo *repository.Repository, accounts *auth.Provider, roles RoleResolver, sweeper *listing.Sweeper, log *logging.Logger) *Service {
	if log == nil {
		log = logging.NewNop()
	}
	if sweeper == nil {
		sweeper = listing.NewSweeper(repo, nil, log)
	}
	return &Service{
		repo:     repo,
		accounts: accounts,
		roles:    roles,
		sweeper:  sweeper,
		log:      log.Named("board"),
		now:      time.Now,
	}
}

// requireRole fails with ErrForbidden unless the user holds role.
func (s *Service) requireRole(ctx context.Context, userID string, role types.Role) error {
	if userID == "" {
		return &ErrForbidden{Reason: "sign in required"}
	}
	if got := s.roles.Resolve(ctx, userID); got != role {
		return &ErrForbidden{Reason: "only " + string(role) + "s may do this"}
	}
	return nil
}

// ownedJob loads a job and checks the recruiter owns it.
func (s *Service) ownedJob(ctx context.Context, recruiterID, jobID string) (*types.Job, error) {
	job, err := s.repo.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, &ErrNotFound{Kind: "job", ID: jobID}
	}
	if job.RecruiterID != recruiterID {
		return nil, &ErrForbidden{Reason: "job belongs to another recruiter"}
	}
	return job, nil
}
