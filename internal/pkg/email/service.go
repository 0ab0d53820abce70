// internal/pkg/email/service.go
package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/nabin216/ZotPot/internal/config"
	"github.com/sirupsen/logrus"
)

// Service renders and sends email through the configured provider
type Service struct {
	cfg       config.EmailConfig
	templates map[Type]*template.Template
	client    *http.Client
	logger    logrus.FieldLogger
}

// NewService creates a new email service. Templates found in the template
// directory replace the built-in ones.
func NewService(cfg config.EmailConfig, logger logrus.FieldLogger) *Service {
	s := &Service{
		cfg:       cfg,
		templates: make(map[Type]*template.Template),
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
	s.loadTemplates()
	return s
}

// Send sends an email using the configured provider
func (s *Service) Send(ctx context.Context, email *Email) error {
	if len(email.To) == 0 {
		return fmt.Errorf("email has no recipients")
	}

	switch s.cfg.Provider {
	case "", "log":
		s.logger.WithFields(logrus.Fields{
			"to":      strings.Join(email.To, ", "),
			"subject": email.Subject,
			"type":    email.Type,
		}).Info("Email not delivered, log provider")
		s.logger.Debug(email.TextContent)
		return nil
	case "smtp":
		return s.sendSMTP(email)
	case "resend":
		return s.sendResend(ctx, email)
	case "sendgrid":
		return s.sendSendGrid(ctx, email)
	default:
		return fmt.Errorf("unsupported email provider: %s", s.cfg.Provider)
	}
}

// SendPasswordReset sends the reset link for a forgotten password
func (s *Service) SendPasswordReset(ctx context.Context, userEmail, userName, token string, expiry time.Duration) error {
	data := PasswordResetData{
		TemplateData: baseTemplateData(s.cfg.FromName, s.cfg.BaseURL, userName, userEmail),
		ResetURL:     template.URL(s.ResetURL(token)),
		ExpiryTime:   humanDuration(expiry),
	}

	htmlContent, err := s.render(TypePasswordReset, data)
	if err != nil {
		return fmt.Errorf("failed to render password reset template: %w", err)
	}

	return s.Send(ctx, &Email{
		To:          []string{userEmail},
		Subject:     "Reset Your Password",
		HTMLContent: htmlContent,
		TextContent: fmt.Sprintf("Reset your %s password within %s: %s", s.cfg.FromName, data.ExpiryTime, data.ResetURL),
		Type:        TypePasswordReset,
	})
}

// ResetURL returns the deep link that opens the reset screen
func (s *Service) ResetURL(token string) string {
	return strings.TrimRight(s.cfg.BaseURL, "/") + "/reset-password?token=" + url.QueryEscape(token)
}

func (s *Service) loadTemplates() {
	for name, body := range defaultTemplates {
		s.templates[name] = template.Must(template.New(string(name)).Parse(body))
	}
	if s.cfg.TemplateDir == "" {
		return
	}

	for name := range defaultTemplates {
		path := filepath.Join(s.cfg.TemplateDir, string(name)+".html")
		tmpl, err := template.ParseFiles(path)
		if err != nil {
			s.logger.WithError(err).WithField("template", name).Warn("Could not load email template, using built-in")
			continue
		}
		s.templates[name] = tmpl
	}
}

func (s *Service) render(name Type, data interface{}) (string, error) {
	tmpl, exists := s.templates[name]
	if !exists {
		return "", fmt.Errorf("template %s not found", name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return buf.String(), nil
}

func (s *Service) from() string {
	if s.cfg.FromName != "" {
		return fmt.Sprintf("%s <%s>", s.cfg.FromName, s.cfg.FromEmail)
	}
	return s.cfg.FromEmail
}

func humanDuration(d time.Duration) string {
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		if d == time.Hour {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", d/time.Hour)
	case d >= time.Minute:
		return fmt.Sprintf("%d minutes", d/time.Minute)
	}
	return d.String()
}

var defaultTemplates = map[Type]string{
	TypePasswordReset: `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.SiteName}}</title>
</head>
<body style="font-family: Arial, sans-serif; margin: 0; padding: 20px; background-color: #f4f4f4;">
    <div style="max-width: 600px; margin: 0 auto; background-color: white; padding: 20px; border-radius: 8px;">
        <h1 style="color: #FF5722;">{{.SiteName}}</h1>
        <p>Hi {{.UserName}},</p>
        <p>We received a request to reset the password for {{.UserEmail}}.</p>
        <p><a href="{{.ResetURL}}" style="background-color: #FF5722; color: white; padding: 10px 16px; border-radius: 4px; text-decoration: none;">Reset password</a></p>
        <p>The link expires in {{.ExpiryTime}}. If you did not ask for this you can ignore this email.</p>
        <hr>
        <p style="font-size: 12px; color: #666;">&copy; {{.Year}} {{.SiteName}}</p>
    </div>
</body>
</html>`,
}
