// internal/pkg/auth/jwt.go
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nabin216/ZotPot/internal/config"
)

const (
	tokenTypeID    = "id"
	tokenTypeReset = "password_reset"
)

// ErrInvalidToken wraps every token validation failure
var ErrInvalidToken = errors.New("invalid token")

// Claims represents the id token claims
type Claims struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// JWTManager issues and validates session id tokens
type JWTManager struct {
	secret []byte
	issuer string
	expiry time.Duration
	now    func() time.Time
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(cfg *config.Config) *JWTManager {
	return &JWTManager{
		secret: []byte(cfg.JWT.Secret),
		issuer: cfg.App.Name,
		expiry: cfg.JWT.IDTokenExpiry,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// GenerateIDToken issues a signed id token for a user
func (j *JWTManager) GenerateIDToken(userID, email string) (string, time.Time, error) {
	now := j.now()
	expiresAt := now.Add(j.expiry)

	claims := &Claims{
		UserID:    userID,
		Email:     email,
		TokenType: tokenTypeID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    j.issuer,
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(j.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// ValidateIDToken validates and parses an id token
func (j *JWTManager) ValidateIDToken(tokenString string) (*Claims, error) {
	claims, err := j.parse(tokenString, tokenTypeID)
	if err != nil {
		return nil, err
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("%w: missing user", ErrInvalidToken)
	}
	return claims, nil
}

// GenerateResetToken issues a password reset token. The fingerprint is
// derived from the current password hash, so a token stops working once
// the password changes.
func (j *JWTManager) GenerateResetToken(email, fingerprint string, ttl time.Duration) (string, time.Time, error) {
	now := j.now()
	expiresAt := now.Add(ttl)

	claims := &Claims{
		Email:     email,
		TokenType: tokenTypeReset,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        fingerprint,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    j.issuer,
			Subject:   email,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(j.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// ValidateResetToken validates a password reset token and returns its claims.
// The caller still has to compare the fingerprint (claims.ID).
func (j *JWTManager) ValidateResetToken(tokenString string) (*Claims, error) {
	claims, err := j.parse(tokenString, tokenTypeReset)
	if err != nil {
		return nil, err
	}
	if claims.Email == "" || claims.ID == "" {
		return nil, fmt.Errorf("%w: missing reset subject", ErrInvalidToken)
	}
	return claims, nil
}

func (j *JWTManager) parse(tokenString, tokenType string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secret, nil
	}, jwt.WithIssuer(j.issuer), jwt.WithTimeFunc(j.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: invalid claims", ErrInvalidToken)
	}
	if claims.TokenType != tokenType {
		return nil, fmt.Errorf("%w: unexpected token type %q", ErrInvalidToken, claims.TokenType)
	}
	return claims, nil
}

// ExtractTokenFromHeader extracts the bearer token from an Authorization header
func ExtractTokenFromHeader(authHeader string) string {
	const prefix = "Bearer "
	if len(authHeader) > len(prefix) && strings.EqualFold(authHeader[:len(prefix)], prefix) {
		return strings.TrimSpace(authHeader[len(prefix):])
	}
	return ""
}
