// internal/store/options.go
package store

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Option configures a Store
type Option func(*Store)

// WithLogger sets the logger used for dispatch tracing and rejected transitions
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithPermissiveTransitions accepts any known order status change regardless
// of the current status
func WithPermissiveTransitions() Option {
	return func(s *Store) {
		s.orders.Permissive = true
	}
}

// WithMetrics records dispatch counters
func WithMetrics(m *Metrics) Option {
	return func(s *Store) {
		s.metrics = m
	}
}

func discardLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
