package board

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/job-tracker/internal/types"
	"github.com/jonathan/job-tracker/internal/validation"
)

// SignUp validates the form, creates the identity and its role profile and
// signs the new user in. A failed profile write removes the identity again.
func (s *Service) SignUp(ctx context.Context, req *types.SignupRequest) (*types.LoginResponse, error) {
	if errs := validation.ValidateSignup(req); len(errs) > 0 {
		return nil, errs
	}
	role, _ := types.ParseRole(req.Role)

	user, err := s.accounts.SignUp(ctx, req.Email, req.Password, role)
	if err != nil {
		return nil, err
	}

	if err := s.createProfile(ctx, user, role, req); err != nil {
		if derr := s.accounts.Discard(ctx, user.ID); derr != nil {
			s.log.Error("failed to roll back user after profile error", "user_id", user.ID, "error", derr)
		}
		return nil, fmt.Errorf("failed to create %s profile: %w", role, err)
	}

	token, err := s.accounts.Issue(user, false)
	if err != nil {
		return nil, err
	}
	return &types.LoginResponse{User: user, Token: token, Navigate: role.Dashboard()}, nil
}

func (s *Service) createProfile(ctx context.Context, user *types.User, role types.Role, req *types.SignupRequest) error {
	created := types.NewTimestamp(s.now())
	if role == types.RoleRecruiter {
		return s.repo.CreateRecruiter(ctx, &types.RecruiterProfile{
			UID:             user.ID,
			FullName:        sanitizeText(req.FullName),
			Email:           user.Email,
			Mobile:          strings.TrimSpace(req.Mobile),
			Gender:          req.Gender,
			CompanyName:     sanitizeText(req.CompanyName),
			Website:         strings.TrimSpace(req.Website),
			CompanyLocation: sanitizeText(req.CompanyLocation),
			CreatedAt:       created,
		})
	}
	return s.repo.CreateApplier(ctx, &types.ApplierProfile{
		UID:       user.ID,
		FullName:  sanitizeText(req.FullName),
		Email:     user.Email,
		Mobile:    strings.TrimSpace(req.Mobile),
		Gender:    req.Gender,
		CreatedAt: created,
	})
}

// SignIn checks the credential and returns a token plus the dashboard to open.
// Remember selects the long-lived session.
func (s *Service) SignIn(ctx context.Context, req *types.LoginRequest) (*types.LoginResponse, error) {
	user, token, err := s.accounts.SignIn(ctx, req.Email, req.Password, req.Remember)
	if err != nil {
		return nil, err
	}
	user.Role = s.roles.Resolve(ctx, user.ID)
	return &types.LoginResponse{User: user, Token: token, Navigate: user.Role.Dashboard()}, nil
}

// SignOut revokes the token.
func (s *Service) SignOut(ctx context.Context, token string) error {
	return s.accounts.SignOut(ctx, token)
}

// Me returns the signed-in user with a resolved role.
func (s *Service) Me(ctx context.Context, userID string) (*types.User, error) {
	user, err := s.accounts.CurrentUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.Role.Valid() {
		user.Role = s.roles.Resolve(ctx, userID)
	}
	return user, nil
}
