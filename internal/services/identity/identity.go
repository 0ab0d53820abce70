// internal/services/identity/identity.go
package identity

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/nabin216/ZotPot/internal/pkg/auth"
)

var (
	ErrMissingCredentials = errors.New("email and password are required")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("incorrect password")
	ErrEmailInUse         = errors.New("email already in use")
	ErrWeakPassword       = auth.ErrWeakPassword
	ErrInvalidResetToken  = errors.New("invalid or expired reset link")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Session is the result of a successful sign-in
type Session struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	IDToken   string    `json:"id_token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Provider authenticates users
type Provider interface {
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignUp(ctx context.Context, email, password string) (string, error)
	SignOut(ctx context.Context) error
	CurrentUser() (string, bool)
}

// PasswordResetter issues and redeems password reset tokens
type PasswordResetter interface {
	RequestPasswordReset(ctx context.Context, email string, ttl time.Duration) (string, error)
	ResetPassword(ctx context.Context, token, password string) error
}

// NormalizeEmail trims and lowercases an address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidEmail reports whether email looks like an address
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// LoginMessage turns a sign-in error into the text shown on the login screen
func LoginMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingCredentials):
		return "Please enter both email and password"
	case errors.Is(err, ErrUserNotFound):
		return "No account found with this email"
	case errors.Is(err, ErrInvalidCredentials):
		return "Incorrect password"
	case errors.Is(err, ErrInvalidEmail):
		return "Invalid email address"
	}
	return "Failed to login. Please try again."
}

// RegisterMessage turns a sign-up error into the text shown on the register screen
func RegisterMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingCredentials):
		return "Email and password are required"
	case errors.Is(err, ErrInvalidEmail):
		return "Please enter a valid email"
	case errors.Is(err, ErrEmailInUse):
		return "An account with this email already exists"
	case errors.Is(err, ErrWeakPassword):
		return "Password " + strings.TrimPrefix(err.Error(), ErrWeakPassword.Error()+": ")
	}
	return "Registration failed"
}
