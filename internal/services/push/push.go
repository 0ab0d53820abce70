// internal/services/push/push.go
package push

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Permission is the device's notification permission status
type Permission string

const (
	PermissionGranted      Permission = "granted"
	PermissionDenied       Permission = "denied"
	PermissionUndetermined Permission = "undetermined"
)

var (
	ErrPermissionDenied = errors.New("notification permission not granted")
	ErrNoToken          = errors.New("no push token available")
)

// Registrar is the device side of push notifications
type Registrar interface {
	PermissionStatus(ctx context.Context) (Permission, error)
	RequestPermission(ctx context.Context) (Permission, error)
	Token(ctx context.Context) (string, error)
}

// Register asks for permission if it was not granted yet and returns the
// device token
func Register(ctx context.Context, r Registrar, logger logrus.FieldLogger) (string, error) {
	status, err := r.PermissionStatus(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read notification permission: %w", err)
	}

	if status != PermissionGranted {
		status, err = r.RequestPermission(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to request notification permission: %w", err)
		}
	}

	if status != PermissionGranted {
		logger.WithField("status", status).Info("Permission not granted for notifications")
		return "", ErrPermissionDenied
	}

	token, err := r.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get push token: %w", err)
	}
	if token == "" {
		return "", ErrNoToken
	}

	logger.Debug("Push token registered")
	return token, nil
}

// Reported is a Registrar for a permission and token the renderer already
// obtained from the device and reported to us
type Reported struct {
	Status    Permission
	PushToken string
}

func (r Reported) PermissionStatus(ctx context.Context) (Permission, error) {
	return r.Status, nil
}

func (r Reported) RequestPermission(ctx context.Context) (Permission, error) {
	return r.Status, nil
}

func (r Reported) Token(ctx context.Context) (string, error) {
	if r.PushToken == "" {
		return "", ErrNoToken
	}
	return r.PushToken, nil
}
