// internal/infrastructure/storage/local.go
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/nabin216/ZotPot/internal/config"
)

var (
	ErrEmptyFile        = errors.New("file is empty")
	ErrFileTooLarge     = errors.New("file is too large")
	ErrInvalidExtension = errors.New("file type not allowed")
	ErrInvalidPath      = errors.New("invalid storage path")
)

// Uploader stores a blob and returns its public URL
type Uploader interface {
	Upload(ctx context.Context, path string, data []byte) (string, error)
}

// Local writes blobs under a directory and serves them from a base URL
type Local struct {
	root              string
	baseURL           string
	maxSize           int64
	allowedExtensions map[string]bool
}

// NewLocal creates a filesystem backed uploader
func NewLocal(cfg config.StorageConfig) *Local {
	allowed := make(map[string]bool, len(cfg.AllowedExtensions))
	for _, ext := range cfg.AllowedExtensions {
		allowed[strings.ToLower(strings.TrimPrefix(ext, "."))] = true
	}

	baseURL := strings.TrimSuffix(cfg.CDNBaseURL, "/")
	if baseURL == "" {
		baseURL = "/uploads"
	}

	return &Local{
		root:              cfg.LocalPath,
		baseURL:           baseURL,
		maxSize:           cfg.MaxSize,
		allowedExtensions: allowed,
	}
}

// Root is the directory files are written to
func (l *Local) Root() string {
	return l.root
}

// Upload writes data to path (relative, slash separated) and returns its URL
func (l *Local) Upload(ctx context.Context, p string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	clean, err := l.validate(p, data)
	if err != nil {
		return "", err
	}

	fullPath := filepath.Join(l.root, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	tmp := fullPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	if err := os.Rename(tmp, fullPath); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return l.fileURL(clean), nil
}

func (l *Local) validate(p string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyFile
	}
	if l.maxSize > 0 && int64(len(data)) > l.maxSize {
		return "", fmt.Errorf("%w: %d bytes (max %d)", ErrFileTooLarge, len(data), l.maxSize)
	}

	if p == "" || strings.HasPrefix(p, "/") || strings.Contains(p, "\\") {
		return "", ErrInvalidPath
	}
	clean := path.Clean(p)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", ErrInvalidPath
	}

	ext := strings.ToLower(strings.TrimPrefix(path.Ext(clean), "."))
	if len(l.allowedExtensions) > 0 && !l.allowedExtensions[ext] {
		return "", fmt.Errorf("%w: %q", ErrInvalidExtension, ext)
	}
	return clean, nil
}

func (l *Local) fileURL(relativePath string) string {
	return l.baseURL + "/" + relativePath
}

// UniqueName builds a collision free object name that keeps the extension
// of the original file name
func UniqueName(dir, originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	return path.Join(dir, uuid.NewString()+ext)
}
