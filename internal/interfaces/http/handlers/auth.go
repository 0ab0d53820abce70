// internal/interfaces/http/handlers/auth.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nabin216/ZotPot/internal/app"
	"github.com/nabin216/ZotPot/internal/domain/auth"
	"github.com/nabin216/ZotPot/internal/services/identity"
)

// RegisterRequest is the register screen form
type RegisterRequest struct {
	Name            string    `json:"name" binding:"required"`
	Email           string    `json:"email" binding:"required,email"`
	Password        string    `json:"password" binding:"required"`
	ConfirmPassword string    `json:"confirm_password" binding:"required,eqfield=Password"`
	Role            auth.Role `json:"role" binding:"omitempty,oneof=customer delivery_agent"`
}

// LoginRequest is the login screen form. Missing fields are reported by the
// identity provider so the screen gets its own wording.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ForgotPasswordRequest asks for a reset link
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest redeems a reset link
type ResetPasswordRequest struct {
	Token           string `json:"token" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=Password"`
}

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	session  *app.Session
	recovery *app.Recovery
	store    StateSource
	tracker  Tracker
}

// NewAuthHandler creates a new auth handler. recovery may be nil when
// outgoing email is not set up.
func NewAuthHandler(session *app.Session, recovery *app.Recovery, st StateSource, tracker Tracker) *AuthHandler {
	return &AuthHandler{
		session:  session,
		recovery: recovery,
		store:    st,
		tracker:  tracker,
	}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	userID, err := h.session.SignUp(c.Request.Context(), app.SignUpRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		status := http.StatusBadRequest
		msg := identity.RegisterMessage(err)
		switch {
		case errors.Is(err, identity.ErrEmailInUse):
			status = http.StatusConflict
		case errors.Is(err, app.ErrNameRequired):
			msg = "Name is required"
		case errors.Is(err, app.ErrInvalidRole):
			msg = "Invalid role"
		case msg == "Registration failed":
			status = http.StatusInternalServerError
		}
		c.JSON(status, gin.H{
			"error": msg,
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful! Redirecting to login...",
		"data": gin.H{
			"user_id": userID,
		},
	})
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	user, session, err := h.session.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		status := http.StatusUnauthorized
		switch {
		case errors.Is(err, identity.ErrMissingCredentials), errors.Is(err, identity.ErrInvalidEmail):
			status = http.StatusBadRequest
		case !errors.Is(err, identity.ErrUserNotFound) && !errors.Is(err, identity.ErrInvalidCredentials):
			status = http.StatusInternalServerError
		}
		c.JSON(status, gin.H{
			"error": identity.LoginMessage(err),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"data": gin.H{
			"user":       user,
			"token":      session.IDToken,
			"expires_at": session.ExpiresAt,
			"route":      h.store.Snapshot().Route,
		},
	})
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if h.tracker != nil {
		h.tracker.StopAll()
	}

	if err := h.session.SignOut(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to logout",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// GetProfile handles GET /auth/profile
func (h *AuthHandler) GetProfile(c *gin.Context) {
	snapshot := h.store.Snapshot()
	user := snapshot.Auth.User()
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile retrieved successfully",
		"data": gin.H{
			"user":  user,
			"route": snapshot.Route,
		},
	})
}

// ForgotPassword handles POST /auth/forgot-password
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	if h.recovery == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Password reset is not available",
		})
		return
	}

	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if err := h.recovery.Forgot(c.Request.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, identity.ErrMissingCredentials):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please enter your email"})
		case errors.Is(err, identity.ErrInvalidEmail):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please enter a valid email"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send reset email"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "If an account exists for this email, a reset link has been sent",
	})
}

// ResetPassword handles POST /auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	if h.recovery == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Password reset is not available",
		})
		return
	}

	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if err := h.recovery.Reset(c.Request.Context(), req.Token, req.Password); err != nil {
		switch {
		case errors.Is(err, identity.ErrInvalidResetToken):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Reset link is invalid or has expired"})
		case errors.Is(err, identity.ErrWeakPassword):
			c.JSON(http.StatusBadRequest, gin.H{"error": identity.RegisterMessage(err)})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Password updated. Please sign in with your new password",
	})
}
