// internal/interfaces/http/handlers/upload.go
package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nabin216/ZotPot/internal/app"
	"github.com/nabin216/ZotPot/internal/infrastructure/storage"
)

// UploadHandler handles file upload endpoints
type UploadHandler struct {
	session *app.Session
	maxSize int64
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(session *app.Session, maxSize int64) *UploadHandler {
	return &UploadHandler{
		session: session,
		maxSize: maxSize,
	}
}

// UploadAvatar handles POST /profile/avatar
func (h *UploadHandler) UploadAvatar(c *gin.Context) {
	file, header, err := c.Request.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "No avatar file provided",
		})
		return
	}
	defer file.Close()

	// one byte over the limit is enough for the storage to reject it
	data, err := io.ReadAll(io.LimitReader(file, h.maxSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Failed to read upload",
		})
		return
	}

	url, err := h.session.UploadAvatar(c.Request.Context(), header.Filename, data)
	if err != nil {
		status := http.StatusInternalServerError
		msg := "Failed to upload avatar"
		switch {
		case errors.Is(err, storage.ErrFileTooLarge):
			status, msg = http.StatusRequestEntityTooLarge, "File is too large"
		case errors.Is(err, storage.ErrInvalidExtension):
			status, msg = http.StatusBadRequest, "File type not allowed"
		case errors.Is(err, storage.ErrEmptyFile):
			status, msg = http.StatusBadRequest, "File is empty"
		}
		c.JSON(status, gin.H{
			"error": msg,
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Avatar uploaded successfully",
		"data": gin.H{
			"url": url,
		},
	})
}
