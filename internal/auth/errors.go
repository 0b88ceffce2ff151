package auth

import "fmt"

type (
	// ErrEmailAlreadyExists is returned by SignUp for a taken address.
	ErrEmailAlreadyExists struct{ Email string }

	// ErrInvalidCredentials hides whether the email or the password was wrong.
	ErrInvalidCredentials struct{}

	// ErrUserNotFound is returned for a valid token whose identity is gone.
	ErrUserNotFound struct{ UserID string }

	// ErrInvalidToken covers missing, expired, malformed and signed-out tokens.
	ErrInvalidToken struct{ Reason string }
)

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("an account already uses %s", e.Email)
}

func (*ErrInvalidCredentials) Error() string { return "invalid email or password" }

func (e *ErrUserNotFound) Error() string { return "no identity " + e.UserID }

func (e *ErrInvalidToken) Error() string { return "invalid session: " + e.Reason }
