// Package auth provides the identity provider (sign-up, sign-in, sign-out,
// token verification) and the observable session object.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jonathan/job-tracker/internal/config"
	"github.com/jonathan/job-tracker/internal/types"
)

// Claims is the session token payload. RegisteredClaims.ID is the token id
// recorded on sign-out.
type Claims struct {
	UserID     string     `json:"user_id"`
	Role       types.Role `json:"role,omitempty"`
	Persistent bool       `json:"persistent,omitempty"`
	jwt.RegisteredClaims
}

// GetUserID returns the subject of the token.
func (c *Claims) GetUserID() string { return c.UserID }

// GetRole returns the role recorded at sign-in.
func (c *Claims) GetRole() types.Role { return c.Role }

// TokenIssuer signs and parses HS256 session tokens.
type TokenIssuer struct {
	cfg *config.JWTConfig
	now func() time.Time
}

// NewTokenIssuer returns an issuer using cfg for the secret and lifetimes.
func NewTokenIssuer(cfg *config.JWTConfig) *TokenIssuer {
	return &TokenIssuer{cfg: cfg, now: time.Now}
}

// Issue signs a token for the user. A persistent session gets the long lifetime.
func (t *TokenIssuer) Issue(userID string, role types.Role, persistent bool) (string, *Claims, error) {
	issued := t.now()
	claims := &Claims{UserID: userID, Role: role, Persistent: persistent}
	claims.ID = uuid.NewString()
	claims.IssuedAt = jwt.NewNumericDate(issued)
	claims.NotBefore = claims.IssuedAt
	claims.ExpiresAt = jwt.NewNumericDate(issued.Add(t.cfg.TTL(persistent)))

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(t.cfg.Secret))
	if err != nil {
		return "", nil, fmt.Errorf("sign session token: %w", err)
	}
	return signed, claims, nil
}

func (t *TokenIssuer) key(tok *jwt.Token) (any, error) {
	if tok.Method != jwt.SigningMethodHS256 {
		return nil, fmt.Errorf("signing method %v not accepted", tok.Header["alg"])
	}
	return []byte(t.cfg.Secret), nil
}

// Parse checks the signature and lifetime of raw and returns its claims.
func (t *TokenIssuer) Parse(raw string) (*Claims, error) {
	if raw == "" {
		return nil, errors.New("no token")
	}

	claims := &Claims{}
	if _, err := jwt.ParseWithClaims(raw, claims, t.key, jwt.WithTimeFunc(t.now)); err != nil {
		var reason string
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			reason = "token expired"
		case errors.Is(err, jwt.ErrTokenMalformed):
			reason = "malformed token"
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			reason = "bad signature"
		default:
			reason = "unparseable token"
		}
		return nil, fmt.Errorf("%s: %w", reason, err)
	}
	if claims.UserID == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}
