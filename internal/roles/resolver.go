// Package roles resolves which role (recruiter or applier) an identity holds.
package roles

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonathan/job-tracker/internal/logging"
	"github.com/jonathan/job-tracker/internal/types"
)

// ErrUnknownIdentity means the id has no role on its identity record and no
// profile in either collection.
var ErrUnknownIdentity = errors.New("identity has no role profile")

// Profiles is the read access the resolver needs.
type Profiles interface {
	GetUser(ctx context.Context, id string) (*types.UserRecord, error)
	ProfileExists(ctx context.Context, role types.Role, id string) (bool, error)
	SetUserRole(ctx context.Context, id string, role types.Role) error
}

// Resolver maps user ids to roles.
type Resolver struct {
	profiles Profiles
	cache    Cache
	timeout  time.Duration
	log      *logging.Logger
}

// NewResolver creates a resolver. A nil cache disables caching; a zero
// timeout leaves the caller's deadline in charge.
func NewResolver(profiles Profiles, cache Cache, timeout time.Duration, log *logging.Logger) *Resolver {
	if cache == nil {
		cache = noCache{}
	}
	if log == nil {
		log = logging.NewNop()
	}
	return &Resolver{profiles: profiles, cache: cache, timeout: timeout, log: log.Named("roles")}
}

// Resolve returns the user's role. Ids found nowhere, and any lookup failure,
// resolve to the applier role.
func (r *Resolver) Resolve(ctx context.Context, userID string) types.Role {
	role, err := r.Lookup(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUnknownIdentity) {
			r.log.Debug("no profile for user, defaulting to applier", "user_id", userID)
		} else {
			r.log.Warn("role lookup failed, defaulting to applier", "user_id", userID, "error", err)
		}
		return types.RoleApplier
	}
	return role
}

// Lookup returns the user's role or ErrUnknownIdentity. The denormalized role
// on the identity record wins; otherwise the recruiter collection is probed
// before the applier collection.
func (r *Resolver) Lookup(ctx context.Context, userID string) (types.Role, error) {
	if userID == "" {
		return "", ErrUnknownIdentity
	}
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	if role, ok := r.cache.Get(ctx, userID); ok {
		return role, nil
	}

	role, err := r.lookup(ctx, userID)
	if err != nil {
		return "", err
	}
	r.cache.Set(ctx, userID, role)
	return role, nil
}

func (r *Resolver) lookup(ctx context.Context, userID string) (types.Role, error) {
	user, err := r.profiles.GetUser(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to load identity: %w", err)
	}
	if user != nil && user.Role.Valid() {
		return user.Role, nil
	}

	for _, role := range []types.Role{types.RoleRecruiter, types.RoleApplier} {
		ok, err := r.profiles.ProfileExists(ctx, role, userID)
		if err != nil {
			return "", fmt.Errorf("failed to check %s profile: %w", role, err)
		}
		if ok {
			if user != nil {
				r.backfill(ctx, userID, role)
			}
			return role, nil
		}
	}
	return "", ErrUnknownIdentity
}

// backfill records a probed role on an identity that predates the
// denormalized role, so later lookups skip the probing.
func (r *Resolver) backfill(ctx context.Context, userID string, role types.Role) {
	if err := r.profiles.SetUserRole(ctx, userID, role); err != nil {
		r.log.Warn("failed to record role on identity", "user_id", userID, "role", role, "error", err)
	}
}
