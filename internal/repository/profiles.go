package repository

import (
	"context"
	"fmt"

	"github.com/jonathan/job-tracker/internal/types"
)

// ProfileExists reports whether id has a profile in the role's collection.
func (r *Repository) ProfileExists(ctx context.Context, role types.Role, id string) (bool, error) {
	doc, err := r.store.Get(ctx, role.ProfileCollection(), id)
	if err != nil {
		return false, err
	}
	return doc != nil, nil
}

// CreateRecruiter writes recruiters/{uid}.
func (r *Repository) CreateRecruiter(ctx context.Context, p *types.RecruiterProfile) error {
	p.Role = types.RoleRecruiter
	if err := r.put(ctx, types.CollectionRecruiters, p.UID, p); err != nil {
		return fmt.Errorf("failed to create recruiter profile: %w", err)
	}
	return nil
}

// CreateApplier writes appliers/{uid}.
func (r *Repository) CreateApplier(ctx context.Context, p *types.ApplierProfile) error {
	p.Role = types.RoleApplier
	if p.WorkExperience == nil {
		p.WorkExperience = []types.WorkExperience{}
	}
	if err := r.put(ctx, types.CollectionAppliers, p.UID, p); err != nil {
		return fmt.Errorf("failed to create applier profile: %w", err)
	}
	return nil
}

// GetRecruiter returns a recruiter profile, or nil if absent.
func (r *Repository) GetRecruiter(ctx context.Context, id string) (*types.RecruiterProfile, error) {
	var p types.RecruiterProfile
	found, err := r.get(ctx, types.CollectionRecruiters, id, &p)
	if err != nil || !found {
		return nil, err
	}
	p.UID = id
	return &p, nil
}

// GetApplier returns an applier profile, or nil if absent.
func (r *Repository) GetApplier(ctx context.Context, id string) (*types.ApplierProfile, error) {
	var p types.ApplierProfile
	found, err := r.get(ctx, types.CollectionAppliers, id, &p)
	if err != nil || !found {
		return nil, err
	}
	p.UID = id
	return &p, nil
}

// UpdateApplierFields overlays top-level profile fields.
func (r *Repository) UpdateApplierFields(ctx context.Context, id string, fields map[string]any) error {
	return r.update(ctx, types.CollectionAppliers, id, fields)
}

// SetWorkExperience replaces the applier's work history.
func (r *Repository) SetWorkExperience(ctx context.Context, id string, entries []types.WorkExperience) error {
	if entries == nil {
		entries = []types.WorkExperience{}
	}
	return r.update(ctx, types.CollectionAppliers, id, map[string]any{"workExperience": entries})
}
