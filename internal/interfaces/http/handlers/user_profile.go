// internal/interfaces/http/handlers/user_profile.go
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nabin216/ZotPot/internal/app"
	"github.com/nabin216/ZotPot/internal/domain/auth"
	"github.com/nabin216/ZotPot/internal/domain/order"
	"github.com/nabin216/ZotPot/internal/services/push"
)

// UpdateProfileRequest carries the edited fields; absent fields are kept
type UpdateProfileRequest struct {
	Name    *string         `json:"name"`
	Phone   *string         `json:"phone" binding:"omitempty,max=20"`
	Address *order.Location `json:"address"`
}

func (r UpdateProfileRequest) updates() ([]auth.FieldUpdate, error) {
	var updates []auth.FieldUpdate
	if r.Name != nil {
		if strings.TrimSpace(*r.Name) == "" {
			return nil, app.ErrNameRequired
		}
		updates = append(updates, auth.NameUpdate{Name: *r.Name})
	}
	if r.Phone != nil {
		updates = append(updates, auth.PhoneUpdate{Phone: *r.Phone})
	}
	if r.Address != nil {
		updates = append(updates, auth.AddressUpdate{Address: *r.Address})
	}
	return updates, nil
}

// DeviceRequest is what the renderer learned from the device's push service
type DeviceRequest struct {
	Permission push.Permission `json:"permission" binding:"required,oneof=granted denied undetermined"`
	Token      string          `json:"token"`
}

// ProfileHandler handles profile edits and device registration
type ProfileHandler struct {
	session *app.Session
	store   StateSource
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(session *app.Session, st StateSource) *ProfileHandler {
	return &ProfileHandler{
		session: session,
		store:   st,
	}
}

// UpdateProfile handles PUT /profile
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	updates, err := req.updates()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Name is required",
		})
		return
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "No fields to update",
		})
		return
	}

	if err := h.session.UpdateProfile(c.Request.Context(), updates...); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to update profile",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"data":    h.store.Snapshot().Auth.User(),
	})
}

// RegisterDevice handles PUT /profile/device
func (h *ProfileHandler) RegisterDevice(c *gin.Context) {
	var req DeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	err := h.session.RegisterDevice(c.Request.Context(), push.Reported{Status: req.Permission, PushToken: req.Token})
	switch {
	case err == nil:
	case errors.Is(err, push.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Permission not granted for notifications",
		})
		return
	case errors.Is(err, push.ErrNoToken):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Push token is required",
		})
		return
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to register device",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Device registered for notifications",
	})
}
