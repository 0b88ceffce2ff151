package types

import (
	"github.com/go-playground/validator/v10"
)

// SignupRequest is the sign-up form. Field-level rules live in the validation
// package; the tags here only reject structurally unusable payloads.
type SignupRequest struct {
	FullName        string `json:"fullName"`
	Email           string `json:"email" validate:"required"`
	Mobile          string `json:"mobile"`
	Gender          string `json:"gender"`
	Role            string `json:"role" validate:"required"`
	CompanyName     string `json:"companyName,omitempty"`
	Website         string `json:"website,omitempty"`
	CompanyLocation string `json:"companyLocation,omitempty"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirmPassword"`
}

// LoginRequest represents the login request.
// Remember asks for a persisted (long-lived) session.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Remember bool   `json:"remember,omitempty"`
}

// User is an authenticated identity as returned by the API.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      Role      `json:"role,omitempty"`
	CreatedAt Timestamp `json:"createdAt"`
}

// UserRecord is the identity document stored under users/{id}.
type UserRecord struct {
	ID           string    `json:"id,omitempty"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	Role         Role      `json:"role,omitempty"`
	CreatedAt    Timestamp `json:"createdAt"`
}

// Public strips the password hash.
func (u *UserRecord) Public() *User {
	if u == nil {
		return nil
	}
	return &User{ID: u.ID, Email: u.Email, Role: u.Role, CreatedAt: u.CreatedAt}
}

// LoginResponse carries the session token and the page to navigate to.
type LoginResponse struct {
	User     *User  `json:"user"`
	Token    string `json:"token"`
	Navigate string `json:"navigate,omitempty"`
}

// Validate validates the SignupRequest using the validator.
func (r *SignupRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the LoginRequest using the validator.
func (r *LoginRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
