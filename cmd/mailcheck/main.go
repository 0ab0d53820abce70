// cmd/mailcheck/main.go
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/nabin216/ZotPot/internal/config"
	"github.com/nabin216/ZotPot/internal/pkg/email"
	"github.com/nabin216/ZotPot/internal/pkg/logger"
)

// Sends a sample password reset email through the configured provider.
//
//	go run ./cmd/mailcheck -to you@example.com
func main() {
	to := flag.String("to", "", "recipient address")
	flag.Parse()
	if *to == "" {
		log.Fatal("Usage: mailcheck -to <address>")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logr, err := logger.New(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	mailer := email.NewService(cfg.Email, logr)
	if err := mailer.SendPasswordReset(ctx, *to, "", "sample-token", cfg.Email.ResetTokenExpiry); err != nil {
		logr.WithError(err).Fatal("Send failed")
	}

	logr.WithField("provider", cfg.Email.Provider).Info("Email sent")
}
