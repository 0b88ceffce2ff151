package board

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/jonathan/job-tracker/internal/repository"
	"github.com/jonathan/job-tracker/internal/types"
	"github.com/jonathan/job-tracker/internal/validation"
)

// GetRecruiterProfile returns the recruiter's profile.
func (s *Service) GetRecruiterProfile(ctx context.Context, userID string) (*types.RecruiterProfile, error) {
	p, err := s.repo.GetRecruiter(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, &ErrNotFound{Kind: "recruiter profile", ID: userID}
	}
	return p, nil
}

// GetApplierProfile returns the applier's profile.
func (s *Service) GetApplierProfile(ctx context.Context, userID string) (*types.ApplierProfile, error) {
	p, err := s.repo.GetApplier(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, &ErrNotFound{Kind: "applier profile", ID: userID}
	}
	return p, nil
}

// UpdateApplierField validates and writes one editable profile field.
func (s *Service) UpdateApplierField(ctx context.Context, userID, field, value string) (*types.ApplierProfile, error) {
	if !types.EditableApplierFields[field] {
		return nil, validation.Errors{field: "This field cannot be edited."}
	}
	value = strings.TrimSpace(value)
	if msg := validation.ValidateField(field, value); msg != "" {
		return nil, validation.Errors{field: msg}
	}
	if field == "fullName" && value == "" {
		return nil, validation.Errors{field: "Full Name is required"}
	}

	if err := s.repo.UpdateApplierFields(ctx, userID, map[string]any{field: sanitizeText(value)}); err != nil {
		return nil, s.profileErr(userID, err)
	}
	return s.GetApplierProfile(ctx, userID)
}

func toEntry(req *types.WorkExperienceRequest) types.WorkExperience {
	years, _ := validation.ParseExperienceYears(req.ExperienceYears.Trimmed())
	return types.WorkExperience{
		Company:         sanitizeText(req.Company.String()),
		JobRole:         sanitizeText(req.JobRole.String()),
		ExperienceYears: years,
	}
}

// AddWorkExperience appends an entry to the applier's work history.
func (s *Service) AddWorkExperience(ctx context.Context, userID string, req *types.WorkExperienceRequest) (*types.ApplierProfile, error) {
	if errs := validation.ValidateWorkExperience(req); len(errs) > 0 {
		return nil, errs
	}
	return s.editWorkExperience(ctx, userID, func(entries []types.WorkExperience) ([]types.WorkExperience, error) {
		return append(entries, toEntry(req)), nil
	})
}

// UpdateWorkExperience replaces the entry at index.
func (s *Service) UpdateWorkExperience(ctx context.Context, userID string, index int, req *types.WorkExperienceRequest) (*types.ApplierProfile, error) {
	if errs := validation.ValidateWorkExperience(req); len(errs) > 0 {
		return nil, errs
	}
	return s.editWorkExperience(ctx, userID, func(entries []types.WorkExperience) ([]types.WorkExperience, error) {
		if index < 0 || index >= len(entries) {
			return nil, &ErrNotFound{Kind: "work experience", ID: strconv.Itoa(index)}
		}
		entries[index] = toEntry(req)
		return entries, nil
	})
}

// DeleteWorkExperience removes the entry at index, keeping the order of the rest.
func (s *Service) DeleteWorkExperience(ctx context.Context, userID string, index int) (*types.ApplierProfile, error) {
	return s.editWorkExperience(ctx, userID, func(entries []types.WorkExperience) ([]types.WorkExperience, error) {
		if index < 0 || index >= len(entries) {
			return nil, &ErrNotFound{Kind: "work experience", ID: strconv.Itoa(index)}
		}
		return append(entries[:index], entries[index+1:]...), nil
	})
}

func (s *Service) editWorkExperience(ctx context.Context, userID string, edit func([]types.WorkExperience) ([]types.WorkExperience, error)) (*types.ApplierProfile, error) {
	p, err := s.GetApplierProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	entries, err := edit(append([]types.WorkExperience{}, p.WorkExperience...))
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetWorkExperience(ctx, userID, entries); err != nil {
		return nil, s.profileErr(userID, err)
	}
	p.WorkExperience = entries
	return p, nil
}

func (s *Service) profileErr(userID string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return &ErrNotFound{Kind: "applier profile", ID: userID}
	}
	return err
}
