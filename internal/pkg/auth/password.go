// internal/pkg/auth/password.go
package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nabin216/ZotPot/internal/config"
	"golang.org/x/crypto/bcrypt"
)

const maxPasswordLength = 72 // bcrypt ignores anything longer

// ErrWeakPassword is returned when a password fails validation
var ErrWeakPassword = errors.New("weak password")

// ErrPasswordMismatch is returned when a password does not match its hash
var ErrPasswordMismatch = errors.New("password mismatch")

var commonPasswords = []string{
	"password", "123456", "12345678", "qwerty", "letmein", "111111", "zotpot",
}

// PasswordManager handles password operations
type PasswordManager struct {
	cost      int
	minLength int
}

// NewPasswordManager creates a new password manager
func NewPasswordManager(cfg *config.Config) *PasswordManager {
	cost := cfg.Security.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordManager{
		cost:      cost,
		minLength: cfg.Security.PasswordMinLength,
	}
}

// HashPassword validates and hashes a password using bcrypt
func (p *PasswordManager) HashPassword(password string) (string, error) {
	if err := p.ValidatePassword(password); err != nil {
		return "", err
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hashedBytes), nil
}

// VerifyPassword verifies a password against its hash
func (p *PasswordManager) VerifyPassword(password, hash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrPasswordMismatch
	}
	return err
}

// ValidatePassword checks length and rejects well-known passwords
func (p *PasswordManager) ValidatePassword(password string) error {
	if len(password) < p.minLength {
		return fmt.Errorf("%w: must be at least %d characters long", ErrWeakPassword, p.minLength)
	}
	if len(password) > maxPasswordLength {
		return fmt.Errorf("%w: must be no more than %d characters long", ErrWeakPassword, maxPasswordLength)
	}

	lower := strings.ToLower(password)
	for _, common := range commonPasswords {
		if lower == common {
			return fmt.Errorf("%w: too common and easily guessable", ErrWeakPassword)
		}
	}

	return nil
}
