// internal/services/identity/local.go
package identity

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nabin216/ZotPot/internal/infrastructure/docstore"
	"github.com/nabin216/ZotPot/internal/pkg/auth"
	"github.com/sirupsen/logrus"
)

type account struct {
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// LocalProvider keeps accounts in the document store, keyed by email
type LocalProvider struct {
	docs      docstore.Store
	passwords *auth.PasswordManager
	tokens    *auth.JWTManager
	logger    logrus.FieldLogger

	mu      sync.RWMutex
	current *Session
}

// NewLocalProvider creates a new document store backed identity provider
func NewLocalProvider(docs docstore.Store, passwords *auth.PasswordManager, tokens *auth.JWTManager, logger logrus.FieldLogger) *LocalProvider {
	return &LocalProvider{
		docs:      docs,
		passwords: passwords,
		tokens:    tokens,
		logger:    logger,
	}
}

// SignUp creates an account and returns the new user id
func (p *LocalProvider) SignUp(ctx context.Context, email, password string) (string, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return "", ErrMissingCredentials
	}
	if !ValidEmail(email) {
		return "", ErrInvalidEmail
	}

	_, exists, err := p.docs.Get(ctx, docstore.CollectionAccounts, email)
	if err != nil {
		return "", fmt.Errorf("failed to look up account: %w", err)
	}
	if exists {
		return "", ErrEmailInUse
	}

	hash, err := p.passwords.HashPassword(password)
	if err != nil {
		return "", err
	}

	acc := account{
		UserID:       uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	doc, err := docstore.Encode(acc)
	if err != nil {
		return "", err
	}
	if err := p.docs.Set(ctx, docstore.CollectionAccounts, email, doc); err != nil {
		return "", fmt.Errorf("failed to create account: %w", err)
	}

	p.logger.WithField("user_id", acc.UserID).Info("Account created")
	return acc.UserID, nil
}

// SignIn checks the password and issues an id token
func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}
	if !ValidEmail(email) {
		return nil, ErrInvalidEmail
	}

	acc, err := p.account(ctx, email)
	if err != nil {
		return nil, err
	}

	if err := p.passwords.VerifyPassword(password, acc.PasswordHash); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}

	token, expiresAt, err := p.tokens.GenerateIDToken(acc.UserID, acc.Email)
	if err != nil {
		return nil, err
	}

	session := &Session{
		UserID:    acc.UserID,
		Email:     acc.Email,
		IDToken:   token,
		ExpiresAt: expiresAt,
	}

	p.mu.Lock()
	p.current = session
	p.mu.Unlock()

	p.logger.WithField("user_id", acc.UserID).Info("User signed in")
	return session, nil
}

// SignOut forgets the current session
func (p *LocalProvider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current != nil {
		p.logger.WithField("user_id", p.current.UserID).Info("User signed out")
	}
	p.current = nil
	return nil
}

// CurrentUser returns the signed-in user id
func (p *LocalProvider) CurrentUser() (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.current == nil {
		return "", false
	}
	return p.current.UserID, true
}

// RequestPasswordReset issues a reset token for an existing account
func (p *LocalProvider) RequestPasswordReset(ctx context.Context, email string, ttl time.Duration) (string, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return "", ErrMissingCredentials
	}
	if !ValidEmail(email) {
		return "", ErrInvalidEmail
	}

	acc, err := p.account(ctx, email)
	if err != nil {
		return "", err
	}

	token, _, err := p.tokens.GenerateResetToken(acc.Email, fingerprint(acc.PasswordHash), ttl)
	if err != nil {
		return "", err
	}

	p.logger.WithField("user_id", acc.UserID).Info("Password reset requested")
	return token, nil
}

// ResetPassword sets a new password if the token is still valid. A token
// can only be redeemed once.
func (p *LocalProvider) ResetPassword(ctx context.Context, token, password string) error {
	claims, err := p.tokens.ValidateResetToken(token)
	if err != nil {
		return ErrInvalidResetToken
	}

	acc, err := p.account(ctx, claims.Email)
	if errors.Is(err, ErrUserNotFound) {
		return ErrInvalidResetToken
	}
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare([]byte(claims.ID), []byte(fingerprint(acc.PasswordHash))) != 1 {
		return ErrInvalidResetToken
	}

	hash, err := p.passwords.HashPassword(password)
	if err != nil {
		return err
	}
	if err := p.docs.Update(ctx, docstore.CollectionAccounts, acc.Email, map[string]interface{}{
		"password_hash": hash,
	}); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	p.logger.WithField("user_id", acc.UserID).Info("Password reset")
	return nil
}

func (p *LocalProvider) account(ctx context.Context, email string) (*account, error) {
	doc, ok, err := p.docs.Get(ctx, docstore.CollectionAccounts, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}
	if !ok {
		return nil, ErrUserNotFound
	}

	var acc account
	if err := docstore.Decode(doc, &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

func fingerprint(passwordHash string) string {
	sum := sha256.Sum256([]byte(passwordHash))
	return hex.EncodeToString(sum[:8])
}
