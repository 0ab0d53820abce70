package email

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nabin216/ZotPot/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() config.EmailConfig {
	return config.EmailConfig{
		Provider:  "log",
		FromEmail: "noreply@zotpot.app",
		FromName:  "ZotPot",
		BaseURL:   "zotpot://app/",
		APIKey:    "key_123",
	}
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestService_ResetURL(t *testing.T) {
	s := NewService(testConfig(), quietLogger())
	assert.Equal(t, "zotpot://app/reset-password?token=a.b%2Bc", s.ResetURL("a.b+c"))
}

func TestService_LogProvider(t *testing.T) {
	logger, hook := test.NewNullLogger()
	s := NewService(testConfig(), logger)

	err := s.SendPasswordReset(context.Background(), "asha@example.com", "Asha", "tok", time.Hour)
	require.NoError(t, err)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "asha@example.com", entry.Data["to"])
	assert.Equal(t, TypePasswordReset, entry.Data["type"])

	assert.Error(t, s.Send(context.Background(), &Email{Subject: "nobody"}))
}

func TestService_Resend(t *testing.T) {
	var got resendRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer key_123", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := testConfig()
	cfg.Provider = "resend"
	cfg.APIBaseURL = server.URL
	s := NewService(cfg, quietLogger())

	err := s.SendPasswordReset(context.Background(), "asha@example.com", "", "tok", 30*time.Minute)
	require.NoError(t, err)

	assert.Equal(t, "ZotPot <noreply@zotpot.app>", got.From)
	assert.Equal(t, []string{"asha@example.com"}, got.To)
	assert.Equal(t, "Reset Your Password", got.Subject)
	assert.Contains(t, got.HTML, "Hi there,")
	assert.Contains(t, got.HTML, "30 minutes")
	assert.Contains(t, got.Text, "zotpot://app/reset-password?token=tok")
	assert.Contains(t, got.HTML, `href="zotpot://app/reset-password?token=tok"`)
}

func TestService_SendGridStatus(t *testing.T) {
	status := http.StatusAccepted
	var got sendGridRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/mail/send", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(status)
	}))
	defer server.Close()

	cfg := testConfig()
	cfg.Provider = "sendgrid"
	cfg.APIBaseURL = server.URL
	s := NewService(cfg, quietLogger())

	email := &Email{To: []string{"asha@example.com"}, Subject: "Hi", HTMLContent: "<p>Hi</p>", Type: TypePasswordReset}
	require.NoError(t, s.Send(context.Background(), email))
	assert.Equal(t, []string{"password_reset"}, got.Categories)
	require.Len(t, got.Content, 1)
	assert.Equal(t, "text/html", got.Content[0].Type)

	status = http.StatusUnauthorized
	err := s.Send(context.Background(), email)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestService_TemplateOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "password_reset.html"), []byte(`custom {{.ResetURL}}`), 0o644))

	cfg := testConfig()
	cfg.TemplateDir = dir
	s := NewService(cfg, quietLogger())

	html, err := s.render(TypePasswordReset, PasswordResetData{ResetURL: "zotpot://app/reset-password?token=x"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(html, "custom "))
}

func TestBuildMessage(t *testing.T) {
	cfg := testConfig()
	cfg.ReplyTo = "help@zotpot.app"
	s := NewService(cfg, quietLogger())

	msg := string(s.buildMessage(&Email{To: []string{"a@b.co", "c@d.co"}, Subject: "Hello", HTMLContent: "<p>x</p>"}))
	assert.Contains(t, msg, "To: a@b.co, c@d.co\r\n")
	assert.Contains(t, msg, "Reply-To: help@zotpot.app\r\n")
	assert.True(t, strings.HasSuffix(msg, "\r\n\r\n<p>x</p>"))
}

func TestHumanDuration(t *testing.T) {
	assert.Equal(t, "1 hour", humanDuration(time.Hour))
	assert.Equal(t, "24 hours", humanDuration(24*time.Hour))
	assert.Equal(t, "90 minutes", humanDuration(90*time.Minute))
	assert.Equal(t, "30s", humanDuration(30*time.Second))
}
