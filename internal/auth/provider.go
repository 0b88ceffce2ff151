package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jonathan/job-tracker/internal/config"
	"github.com/jonathan/job-tracker/internal/logging"
	"github.com/jonathan/job-tracker/internal/types"
)

// Users is the identity storage the provider needs.
type Users interface {
	CreateUser(ctx context.Context, u *types.UserRecord) (string, error)
	GetUser(ctx context.Context, id string) (*types.UserRecord, error)
	FindUserByEmail(ctx context.Context, email string) (*types.UserRecord, error)
	SetPasswordHash(ctx context.Context, id, hash string) error
	DeleteUser(ctx context.Context, id string) error
}

// Provider is the identity provider: credential sign-up and sign-in issuing
// JWTs, sign-out through a revocation list and token verification.
type Provider struct {
	users     Users
	passwords *config.PasswordConfig
	tokens    *TokenIssuer
	revoked   RevocationList
	log       *logging.Logger
}

// NewProvider creates a Provider. A nil revocation list uses an in-process one.
func NewProvider(users Users, passwords *config.PasswordConfig, tokens *TokenIssuer, revoked RevocationList, log *logging.Logger) *Provider {
	if revoked == nil {
		revoked = NewMemoryRevocations()
	}
	if log == nil {
		log = logging.NewNop()
	}
	return &Provider{
		users:     users,
		passwords: passwords,
		tokens:    tokens,
		revoked:   revoked,
		log:       log.Named("auth"),
	}
}

// SignUp creates an identity with the role denormalized onto it.
func (p *Provider) SignUp(ctx context.Context, email, password string, role types.Role) (*types.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	existing, err := p.users.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if existing != nil {
		return nil, &ErrEmailAlreadyExists{Email: email}
	}

	hash, err := p.passwords.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	record := &types.UserRecord{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    types.Now(),
	}
	if _, err := p.users.CreateUser(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	p.log.Info("user signed up", "user_id", record.ID, "role", role)
	return record.Public(), nil
}

// Discard removes an identity created by SignUp when a later step failed.
func (p *Provider) Discard(ctx context.Context, userID string) error {
	return p.users.DeleteUser(ctx, userID)
}

// SignIn checks the credential and issues a token. persist selects the
// long-lived session.
func (p *Provider) SignIn(ctx context.Context, email, password string, persist bool) (*types.User, string, error) {
	record, err := p.users.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get user by email: %w", err)
	}

	// Unknown email and wrong password look the same to the caller.
	if record == nil || !p.passwords.VerifyPassword(password, record.PasswordHash) {
		return nil, "", &ErrInvalidCredentials{}
	}

	if p.passwords.NeedsRehash(record.PasswordHash) {
		p.rehash(ctx, record.ID, password)
	}

	token, err := p.Issue(record.Public(), persist)
	if err != nil {
		return nil, "", err
	}
	return record.Public(), token, nil
}

// rehash upgrades a stored hash to the configured cost. Failures only log;
// the old hash keeps working.
func (p *Provider) rehash(ctx context.Context, userID, password string) {
	hash, err := p.passwords.HashPassword(password)
	if err == nil {
		err = p.users.SetPasswordHash(ctx, userID, hash)
	}
	if err != nil {
		p.log.Warn("failed to upgrade password hash", "user_id", userID, "error", err)
		return
	}
	p.log.Debug("password hash upgraded", "user_id", userID)
}

// Issue signs a token for an already authenticated user.
func (p *Provider) Issue(user *types.User, persist bool) (string, error) {
	token, _, err := p.tokens.Issue(user.ID, user.Role, persist)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}

// SignOut revokes the token until its natural expiry.
func (p *Provider) SignOut(ctx context.Context, token string) error {
	claims, err := p.tokens.Parse(token)
	if err != nil {
		// already unusable
		return nil
	}
	if err := p.revoked.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	p.log.Info("user signed out", "user_id", claims.UserID)
	return nil
}

// Verify validates a token and checks it has not been revoked.
func (p *Provider) Verify(ctx context.Context, token string) (*Claims, error) {
	claims, err := p.tokens.Parse(token)
	if err != nil {
		return nil, &ErrInvalidToken{Reason: err.Error()}
	}
	revoked, err := p.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check revocation: %w", err)
	}
	if revoked {
		return nil, &ErrInvalidToken{Reason: "signed out"}
	}
	return claims, nil
}

// CurrentUser loads the identity behind a verified token.
func (p *Provider) CurrentUser(ctx context.Context, userID string) (*types.User, error) {
	record, err := p.users.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if record == nil {
		return nil, &ErrUserNotFound{UserID: userID}
	}
	return record.Public(), nil
}

// Restore builds a session from a token. The session starts loading and
// settles signed-in or signed-out once the token has been checked.
func (p *Provider) Restore(ctx context.Context, token string) *Session {
	s := NewSession()
	if token == "" {
		s.Clear()
		return s
	}
	claims, err := p.Verify(ctx, token)
	if err != nil {
		var invalid *ErrInvalidToken
		if !errors.As(err, &invalid) {
			p.log.Warn("session restore failed", "error", err)
		}
		s.Clear()
		return s
	}
	user, err := p.CurrentUser(ctx, claims.UserID)
	if err != nil {
		s.Clear()
		return s
	}
	s.Set(user)
	return s
}
