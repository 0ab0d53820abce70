// internal/pkg/email/types.go
package email

import (
	"html/template"
	"time"
)

// Type represents the kind of email being sent
type Type string

const (
	TypePasswordReset Type = "password_reset"
)

// Email represents an outgoing message
type Email struct {
	To          []string `json:"to"`
	Subject     string   `json:"subject"`
	HTMLContent string   `json:"html_content"`
	TextContent string   `json:"text_content,omitempty"`
	Type        Type     `json:"type"`
}

// TemplateData contains fields every template can use
type TemplateData struct {
	SiteName  string
	SiteURL   string
	UserName  string
	UserEmail string
	Year      int
}

// PasswordResetData contains data for the password reset email
type PasswordResetData struct {
	TemplateData
	// ResetURL is a deep link, trusted so the template keeps its scheme
	ResetURL   template.URL
	ExpiryTime string
}

func baseTemplateData(siteName, siteURL, userName, userEmail string) TemplateData {
	if userName == "" {
		userName = "there"
	}
	return TemplateData{
		SiteName:  siteName,
		SiteURL:   siteURL,
		UserName:  userName,
		UserEmail: userEmail,
		Year:      time.Now().Year(),
	}
}
