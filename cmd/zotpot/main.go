// cmd/zotpot/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nabin216/ZotPot/internal/app"
	"github.com/nabin216/ZotPot/internal/config"
	"github.com/nabin216/ZotPot/internal/domain/cart"
	"github.com/nabin216/ZotPot/internal/infrastructure/database/postgres"
	"github.com/nabin216/ZotPot/internal/infrastructure/database/redis"
	"github.com/nabin216/ZotPot/internal/infrastructure/docstore"
	"github.com/nabin216/ZotPot/internal/infrastructure/storage"
	"github.com/nabin216/ZotPot/internal/infrastructure/tracking"
	"github.com/nabin216/ZotPot/internal/interfaces/http"
	"github.com/nabin216/ZotPot/internal/interfaces/http/handlers"
	"github.com/nabin216/ZotPot/internal/interfaces/http/routes"
	"github.com/nabin216/ZotPot/internal/pkg/auth"
	"github.com/nabin216/ZotPot/internal/pkg/email"
	"github.com/nabin216/ZotPot/internal/pkg/logger"
	"github.com/nabin216/ZotPot/internal/services/identity"
	"github.com/nabin216/ZotPot/internal/services/payment"
	"github.com/nabin216/ZotPot/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logr, err := logger.New(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}

	logr.WithFields(logrus.Fields{
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	}).Infof("Starting %s", cfg.App.Name)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	storeOpts := []store.Option{
		store.WithLogger(logr.WithField("component", "store")),
		store.WithMetrics(store.NewMetrics(registry)),
	}
	if cfg.Store.PermissiveTransitions {
		storeOpts = append(storeOpts, store.WithPermissiveTransitions())
	}
	st := store.New(storeOpts...)

	checks := make(map[string]handlers.HealthCheck)

	// Document store
	var docs docstore.Store
	switch cfg.Database.Driver {
	case "postgres":
		db, err := postgres.NewConnection(cfg, logr)
		if err != nil {
			logr.WithError(err).Fatal("Failed to connect to database")
		}
		defer db.Close()

		migration := postgres.NewMigration(db.GetDB(), logr)
		if err := migration.RunAutoMigrations(); err != nil {
			logr.WithError(err).Fatal("Database migration failed")
		}
		if err := migration.CreateIndexes(); err != nil {
			logr.WithError(err).Warn("Index creation failed")
		}

		docs = docstore.NewPostgres(db.GetDB())
		checks["database"] = db.Health
	default:
		logr.Warn("Using in-memory document store; accounts and history are lost on exit")
		docs = docstore.NewMemory()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Cart persistence
	var redisClient *goredis.Client
	if cfg.Redis.Enabled {
		rc, err := redis.NewConnection(cfg, logr)
		if err != nil {
			logr.WithError(err).Fatal("Failed to connect to Redis")
		}
		defer rc.Close()
		redisClient = rc.GetClient()
		checks["redis"] = rc.Health

		cartSync := app.NewCartSync(st, cart.NewSessionStore(redisClient, cfg.Cart.SessionTTL), cfg.Cart.SessionID, logr)
		if _, err := cartSync.Restore(ctx); err != nil {
			logr.WithError(err).Warn("Failed to restore cart")
		}
		go cartSync.Run(ctx)
	}

	// Services and workflows
	tokens := auth.NewJWTManager(cfg)
	provider := identity.NewLocalProvider(docs, auth.NewPasswordManager(cfg), tokens, logr)
	uploader := storage.NewLocal(cfg.Storage)
	payments := payment.NewRazorpay(cfg.Payment, logr)
	if !cfg.PaymentsEnabled() {
		logr.Warn("Razorpay keys not set; checkout is disabled")
	}

	orders := app.NewOrders(st, docs, logr)
	session := app.NewSession(st, provider, docs, uploader, orders, logr)
	checkout := app.NewCheckout(st, payments, orders, cfg.Payment.DeliveryFee, logr)
	mailer := email.NewService(cfg.Email, logr.WithField("component", "email"))
	recovery := app.NewRecovery(provider, mailer, cfg.Email.ResetTokenExpiry, logr)

	tracker := tracking.NewManager(tracking.NewClient(cfg.Tracking, st, logr), logr)
	defer tracker.StopAll()

	server, err := http.NewServer(cfg, routes.Dependencies{
		Config:   cfg,
		Store:    st,
		Session:  session,
		Recovery: recovery,
		Orders:   orders,
		Checkout: checkout,
		Tracker:  tracker,
		Tokens:   tokens,
		Redis:    redisClient,
		Logger:   logr,
	}, checks, registry)
	if err != nil {
		logr.WithError(err).Fatal("Failed to build HTTP server")
	}

	go func() {
		if err := server.Start(); err != nil {
			logr.WithError(err).Fatal("Failed to start HTTP server")
		}
	}()

	logr.Info("All systems operational")

	<-ctx.Done()
	logr.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(shutdownCtx); err != nil {
		logr.WithError(err).Error("Failed to shutdown HTTP server gracefully")
	}

	logr.Info("Server shutdown completed")
}
