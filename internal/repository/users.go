package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/job-tracker/internal/db"
	"github.com/jonathan/job-tracker/internal/types"
)

// CreateUser stores a new identity and returns its id. Emails are stored lowercased.
func (r *Repository) CreateUser(ctx context.Context, u *types.UserRecord) (string, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if err := r.put(ctx, types.CollectionUsers, u.ID, u); err != nil {
		return "", fmt.Errorf("failed to create user: %w", err)
	}
	return u.ID, nil
}

// GetUser returns the identity record, or nil if absent.
func (r *Repository) GetUser(ctx context.Context, id string) (*types.UserRecord, error) {
	var u types.UserRecord
	found, err := r.get(ctx, types.CollectionUsers, id, &u)
	if err != nil || !found {
		return nil, err
	}
	u.ID = id
	return &u, nil
}

// FindUserByEmail looks up an identity by email, case-insensitively.
func (r *Repository) FindUserByEmail(ctx context.Context, email string) (*types.UserRecord, error) {
	docs, err := r.store.Find(ctx, types.CollectionUsers, db.Query{
		Where: []db.Filter{db.Eq("email", strings.ToLower(strings.TrimSpace(email)))},
		Limit: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	if len(docs) == 0 {
		return nil, nil
	}
	var u types.UserRecord
	if err := docs[0].Decode(&u); err != nil {
		return nil, err
	}
	u.ID = docs[0].ID
	return &u, nil
}

// SetUserRole records the denormalized role on the identity.
func (r *Repository) SetUserRole(ctx context.Context, id string, role types.Role) error {
	return r.update(ctx, types.CollectionUsers, id, map[string]any{"role": role})
}

// SetPasswordHash replaces the stored password hash.
func (r *Repository) SetPasswordHash(ctx context.Context, id, hash string) error {
	return r.update(ctx, types.CollectionUsers, id, map[string]any{"passwordHash": hash})
}

// DeleteUser removes an identity. Used to roll back a failed sign-up.
func (r *Repository) DeleteUser(ctx context.Context, id string) error {
	return r.store.Delete(ctx, types.CollectionUsers, id)
}
