package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nabin216/ZotPot/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		App:      config.AppConfig{Name: "ZotPot"},
		JWT:      config.JWTConfig{Secret: "test-secret-that-is-long-enough-123456", IDTokenExpiry: time.Hour},
		Security: config.SecurityConfig{BcryptCost: 4, PasswordMinLength: 6},
	}
}

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager(testConfig())

	token, expiresAt, err := m.GenerateIDToken("u1", "asha@example.com")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := m.ValidateIDToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "asha@example.com", claims.Email)
}

func TestJWTManager_Rejects(t *testing.T) {
	cfg := testConfig()
	m := NewJWTManager(cfg)

	t.Run("expired", func(t *testing.T) {
		expired := NewJWTManager(cfg)
		expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		token, _, err := expired.GenerateIDToken("u1", "a@b.co")
		require.NoError(t, err)

		_, err = m.ValidateIDToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := testConfig()
		other.JWT.Secret = "another-secret-that-is-long-enough-9876"
		token, _, err := NewJWTManager(other).GenerateIDToken("u1", "a@b.co")
		require.NoError(t, err)

		_, err = m.ValidateIDToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong token type", func(t *testing.T) {
		claims := &Claims{UserID: "u1", TokenType: "refresh", RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "ZotPot",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWT.Secret))
		require.NoError(t, err)

		_, err = m.ValidateIDToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := m.ValidateIDToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestJWTManager_ResetToken(t *testing.T) {
	m := NewJWTManager(testConfig())

	token, expiresAt, err := m.GenerateResetToken("asha@example.com", "fp1", 30*time.Minute)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), expiresAt, time.Minute)

	claims, err := m.ValidateResetToken(token)
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", claims.Email)
	assert.Equal(t, "fp1", claims.ID)

	// reset and id tokens are not interchangeable
	_, err = m.ValidateIDToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	idToken, _, err := m.GenerateIDToken("u1", "asha@example.com")
	require.NoError(t, err)
	_, err = m.ValidateResetToken(idToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExtractTokenFromHeader(t *testing.T) {
	assert.Equal(t, "abc", ExtractTokenFromHeader("Bearer abc"))
	assert.Equal(t, "abc", ExtractTokenFromHeader("bearer abc"))
	assert.Equal(t, "", ExtractTokenFromHeader("Basic abc"))
	assert.Equal(t, "", ExtractTokenFromHeader("Bearer "))
}

func TestPasswordManager(t *testing.T) {
	p := NewPasswordManager(testConfig())

	hash, err := p.HashPassword("tandoori")
	require.NoError(t, err)
	assert.NoError(t, p.VerifyPassword("tandoori", hash))
	assert.ErrorIs(t, p.VerifyPassword("biryani", hash), ErrPasswordMismatch)

	_, err = p.HashPassword("short")
	assert.ErrorIs(t, err, ErrWeakPassword)

	_, err = p.HashPassword("Password")
	assert.ErrorIs(t, err, ErrWeakPassword)
}
