// internal/pkg/email/api_providers.go
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const (
	resendBaseURL   = "https://api.resend.com"
	sendGridBaseURL = "https://api.sendgrid.com"
)

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	Text    string   `json:"text,omitempty"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

type sendGridRequest struct {
	Personalizations []sendGridPersonalization `json:"personalizations"`
	From             sendGridAddress           `json:"from"`
	Subject          string                    `json:"subject"`
	Content          []sendGridContent         `json:"content"`
	ReplyTo          *sendGridAddress          `json:"reply_to,omitempty"`
	Categories       []string                  `json:"categories,omitempty"`
}

type sendGridPersonalization struct {
	To []sendGridAddress `json:"to"`
}

type sendGridAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sendGridContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// sendResend sends email using the Resend API
func (s *Service) sendResend(ctx context.Context, email *Email) error {
	return s.postJSON(ctx, "Resend", s.apiURL(resendBaseURL, "/emails"), http.StatusOK, resendRequest{
		From:    s.from(),
		To:      email.To,
		Subject: email.Subject,
		HTML:    email.HTMLContent,
		Text:    email.TextContent,
		ReplyTo: s.cfg.ReplyTo,
	})
}

// sendSendGrid sends email using the SendGrid v3 API
func (s *Service) sendSendGrid(ctx context.Context, email *Email) error {
	to := make([]sendGridAddress, 0, len(email.To))
	for _, recipient := range email.To {
		to = append(to, sendGridAddress{Email: recipient})
	}

	var replyTo *sendGridAddress
	if s.cfg.ReplyTo != "" {
		replyTo = &sendGridAddress{Email: s.cfg.ReplyTo}
	}

	content := []sendGridContent{}
	if email.TextContent != "" {
		content = append(content, sendGridContent{Type: "text/plain", Value: email.TextContent})
	}
	content = append(content, sendGridContent{Type: "text/html", Value: email.HTMLContent})

	return s.postJSON(ctx, "SendGrid", s.apiURL(sendGridBaseURL, "/v3/mail/send"), http.StatusAccepted, sendGridRequest{
		Personalizations: []sendGridPersonalization{{To: to}},
		From:             sendGridAddress{Email: s.cfg.FromEmail, Name: s.cfg.FromName},
		Subject:          email.Subject,
		Content:          content,
		ReplyTo:          replyTo,
		Categories:       []string{string(email.Type)},
	})
}

func (s *Service) apiURL(defaultBase, path string) string {
	base := s.cfg.APIBaseURL
	if base == "" {
		base = defaultBase
	}
	return strings.TrimRight(base, "/") + path
}

func (s *Service) postJSON(ctx context.Context, provider, endpoint string, wantStatus int, body interface{}) error {
	if s.cfg.APIKey == "" {
		return fmt.Errorf("%s API key not configured", provider)
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal %s request: %w", provider, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", provider, err)
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send %s request: %w", provider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		return fmt.Errorf("%s API returned status %d", provider, resp.StatusCode)
	}
	return nil
}
