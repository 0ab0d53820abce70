// internal/interfaces/http/middleware/logger.go
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// probePaths are polled by supervisors and scrapers; they log at debug
var probePaths = map[string]bool{
	"/health":  true,
	"/ready":   true,
	"/metrics": true,
}

// Logger returns a gin.HandlerFunc that logs HTTP requests through the
// application logger
func Logger(logger logrus.FieldLogger) gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		fields := logrus.Fields{
			"request_id":  param.Keys[RequestIDKey],
			"method":      param.Method,
			"path":        param.Path,
			"status_code": param.StatusCode,
			"latency_ms":  float64(param.Latency) / float64(time.Millisecond),
			"client_ip":   param.ClientIP,
			"bytes":       param.BodySize,
		}
		if uid, ok := param.Keys[userIDKey]; ok {
			fields["user_id"] = uid
		}
		entry := logger.WithFields(fields)

		if param.ErrorMessage != "" {
			entry = entry.WithField("error", param.ErrorMessage)
		}

		switch {
		case param.StatusCode >= 500:
			entry.Error("Request failed")
		case param.StatusCode >= 400:
			entry.Warn("Request rejected")
		case probePaths[param.Path]:
			entry.Debug("Probe served")
		default:
			entry.Info("Request served")
		}

		return ""
	})
}
