// internal/app/recovery.go
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nabin216/ZotPot/internal/services/identity"
	"github.com/sirupsen/logrus"
)

// ResetMailer delivers password reset links
type ResetMailer interface {
	SendPasswordReset(ctx context.Context, userEmail, userName, token string, expiry time.Duration) error
}

// Recovery runs the forgot password flow from the login screen
type Recovery struct {
	resetter identity.PasswordResetter
	mailer   ResetMailer
	expiry   time.Duration
	logger   logrus.FieldLogger
}

// NewRecovery creates the password recovery workflow
func NewRecovery(resetter identity.PasswordResetter, mailer ResetMailer, expiry time.Duration, logger logrus.FieldLogger) *Recovery {
	return &Recovery{
		resetter: resetter,
		mailer:   mailer,
		expiry:   expiry,
		logger:   logger,
	}
}

// Forgot emails a reset link. An unknown address is not an error, so the
// response does not reveal which emails have accounts.
func (r *Recovery) Forgot(ctx context.Context, email string) error {
	token, err := r.resetter.RequestPasswordReset(ctx, email, r.expiry)
	if errors.Is(err, identity.ErrUserNotFound) {
		r.logger.Info("Password reset requested for unknown email")
		return nil
	}
	if err != nil {
		return err
	}

	if err := r.mailer.SendPasswordReset(ctx, identity.NormalizeEmail(email), "", token, r.expiry); err != nil {
		r.logger.WithError(err).Error("Failed to send password reset email")
		return fmt.Errorf("failed to send reset email: %w", err)
	}
	return nil
}

// Reset redeems a reset token
func (r *Recovery) Reset(ctx context.Context, token, password string) error {
	if token == "" {
		return identity.ErrInvalidResetToken
	}
	return r.resetter.ResetPassword(ctx, token, password)
}
