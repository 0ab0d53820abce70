package identity

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/nabin216/ZotPot/internal/config"
	"github.com/nabin216/ZotPot/internal/infrastructure/docstore"
	"github.com/nabin216/ZotPot/internal/pkg/auth"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T) (*LocalProvider, *auth.JWTManager) {
	t.Helper()
	cfg := &config.Config{
		App:      config.AppConfig{Name: "ZotPot"},
		JWT:      config.JWTConfig{Secret: "test-secret-that-is-long-enough-123456", IDTokenExpiry: time.Hour},
		Security: config.SecurityConfig{BcryptCost: 4, PasswordMinLength: 6},
	}
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	tokens := auth.NewJWTManager(cfg)
	return NewLocalProvider(docstore.NewMemory(), auth.NewPasswordManager(cfg), tokens, logger), tokens
}

func TestLocalProvider_SignUpAndSignIn(t *testing.T) {
	p, tokens := newTestProvider(t)
	ctx := context.Background()

	uid, err := p.SignUp(ctx, "  Asha@Example.com ", "tandoori")
	require.NoError(t, err)
	require.NotEmpty(t, uid)

	_, ok := p.CurrentUser()
	assert.False(t, ok)

	session, err := p.SignIn(ctx, "asha@example.com", "tandoori")
	require.NoError(t, err)
	assert.Equal(t, uid, session.UserID)
	assert.Equal(t, "asha@example.com", session.Email)

	claims, err := tokens.ValidateIDToken(session.IDToken)
	require.NoError(t, err)
	assert.Equal(t, uid, claims.UserID)

	current, ok := p.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, uid, current)

	require.NoError(t, p.SignOut(ctx))
	_, ok = p.CurrentUser()
	assert.False(t, ok)
}

func TestLocalProvider_Errors(t *testing.T) {
	p, _ := newTestProvider(t)
	ctx := context.Background()
	_, err := p.SignUp(ctx, "asha@example.com", "tandoori")
	require.NoError(t, err)

	tests := []struct {
		name     string
		call     func() error
		want     error
		expected string
	}{
		{
			name:     "unknown user",
			call:     func() error { _, err := p.SignIn(ctx, "nobody@example.com", "tandoori"); return err },
			want:     ErrUserNotFound,
			expected: "No account found with this email",
		},
		{
			name:     "wrong password",
			call:     func() error { _, err := p.SignIn(ctx, "asha@example.com", "biryani1"); return err },
			want:     ErrInvalidCredentials,
			expected: "Incorrect password",
		},
		{
			name:     "invalid email",
			call:     func() error { _, err := p.SignIn(ctx, "asha.example.com", "tandoori"); return err },
			want:     ErrInvalidEmail,
			expected: "Invalid email address",
		},
		{
			name:     "missing password",
			call:     func() error { _, err := p.SignIn(ctx, "asha@example.com", ""); return err },
			want:     ErrMissingCredentials,
			expected: "Please enter both email and password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.expected, LoginMessage(err))
		})
	}
}

func TestLocalProvider_SignUpErrors(t *testing.T) {
	p, _ := newTestProvider(t)
	ctx := context.Background()
	_, err := p.SignUp(ctx, "asha@example.com", "tandoori")
	require.NoError(t, err)

	_, err = p.SignUp(ctx, "ASHA@example.com", "tandoori")
	assert.ErrorIs(t, err, ErrEmailInUse)

	_, err = p.SignUp(ctx, "ravi@example.com", "abc")
	assert.ErrorIs(t, err, ErrWeakPassword)
	assert.Equal(t, "Password must be at least 6 characters long", RegisterMessage(err))

	_, err = p.SignUp(ctx, "not-an-email", "tandoori")
	assert.ErrorIs(t, err, ErrInvalidEmail)
}

func TestLoginMessage_Unknown(t *testing.T) {
	assert.Equal(t, "Failed to login. Please try again.", LoginMessage(errors.New("network down")))
	assert.Equal(t, "", LoginMessage(nil))
}

func TestLocalProvider_PasswordReset(t *testing.T) {
	p, _ := newTestProvider(t)
	ctx := context.Background()

	_, err := p.SignUp(ctx, "asha@example.com", "secret123")
	require.NoError(t, err)

	token, err := p.RequestPasswordReset(ctx, " Asha@Example.com ", time.Hour)
	require.NoError(t, err)

	require.NoError(t, p.ResetPassword(ctx, token, "newsecret456"))

	_, err = p.SignIn(ctx, "asha@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = p.SignIn(ctx, "asha@example.com", "newsecret456")
	require.NoError(t, err)

	// the password changed, so the same link is spent
	err = p.ResetPassword(ctx, token, "another789")
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestLocalProvider_PasswordResetErrors(t *testing.T) {
	p, _ := newTestProvider(t)
	ctx := context.Background()

	_, err := p.RequestPasswordReset(ctx, "nobody@example.com", time.Hour)
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = p.RequestPasswordReset(ctx, "not-an-email", time.Hour)
	assert.ErrorIs(t, err, ErrInvalidEmail)

	err = p.ResetPassword(ctx, "garbage", "newsecret456")
	assert.ErrorIs(t, err, ErrInvalidResetToken)

	_, err = p.SignUp(ctx, "asha@example.com", "secret123")
	require.NoError(t, err)
	token, err := p.RequestPasswordReset(ctx, "asha@example.com", time.Hour)
	require.NoError(t, err)

	err = p.ResetPassword(ctx, token, "123")
	assert.ErrorIs(t, err, ErrWeakPassword)

	// a rejected password leaves the link usable
	require.NoError(t, p.ResetPassword(ctx, token, "newsecret456"))
}
