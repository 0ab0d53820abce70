package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nabin216/ZotPot/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	log, err := New(config.LoggingConfig{Level: "debug", Format: "json"})
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, log.Formatter)

	log, err = New(config.LoggingConfig{Level: "nonsense", Format: "text"})
	require.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, log.Formatter)
}

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "zotpot.log")

	log, err := New(config.LoggingConfig{Level: "info", Format: "json", File: path})
	require.NoError(t, err)
	log.WithField("order_id", "o1").Info("Order placed")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"order_id":"o1"`)
}
