// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/nabin216/ZotPot/internal/pkg/money"
)

// Config holds all configuration for the client
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Security SecurityConfig
	Storage  StorageConfig
	Payment  PaymentConfig
	Tracking TrackingConfig
	Cart     CartConfig
	Email    EmailConfig
	Store    StoreConfig
	Logging  LoggingConfig
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string
	Version     string
	Environment string
	Debug       bool
}

// ServerConfig contains the local API server configuration
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	// RequestTimeout bounds workflow calls made on behalf of one request
	RequestTimeout time.Duration
}

// DatabaseConfig selects and configures the document store. Driver is
// "memory" or "postgres".
type DatabaseConfig struct {
	Driver       string
	Host         string
	Port         string
	Name         string
	User         string
	Password     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

// RedisConfig contains Redis configuration. The cart is only persisted
// when Redis is enabled.
type RedisConfig struct {
	Enabled      bool
	Host         string
	Port         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
}

// JWTConfig contains id token configuration
type JWTConfig struct {
	Secret        string
	IDTokenExpiry time.Duration
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	BcryptCost         int
	PasswordMinLength  int
	CORSAllowedOrigins []string
	CORSAllowedMethods []string
	CORSAllowedHeaders []string
	TrustedProxies     []string
	// RateLimitPerMinute caps sign-in attempts per client; needs Redis
	RateLimitPerMinute int
}

// StorageConfig contains blob storage configuration
type StorageConfig struct {
	Provider          string
	LocalPath         string
	CDNBaseURL        string
	MaxSize           int64
	AllowedExtensions []string
}

// PaymentConfig contains Razorpay configuration
type PaymentConfig struct {
	KeyID       string
	KeySecret   string
	BaseURL     string
	Currency    string
	DeliveryFee money.Money
	Timeout     time.Duration
}

// TrackingConfig contains the live order tracking feed configuration
type TrackingConfig struct {
	URL            string
	ReconnectDelay time.Duration
	MaxReconnects  int
}

// CartConfig contains cart persistence configuration
type CartConfig struct {
	SessionID  string
	SessionTTL time.Duration
}

// EmailConfig contains outgoing mail configuration. Provider is "log",
// "smtp", "resend" or "sendgrid".
type EmailConfig struct {
	Provider         string
	SMTPHost         string
	SMTPPort         int
	SMTPUsername     string
	SMTPPassword     string
	SMTPUseTLS       bool
	APIKey           string
	APIBaseURL       string
	FromEmail        string
	FromName         string
	ReplyTo          string
	BaseURL          string
	TemplateDir      string
	ResetTokenExpiry time.Duration
}

// StoreConfig contains state store configuration
type StoreConfig struct {
	PermissiveTransitions bool
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string
	Format string
	File   string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}

	config := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "ZotPot"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
			Debug:       getEnvAsBool("APP_DEBUG", true),
		},
		Server: ServerConfig{
			Port:           getEnv("APP_PORT", "8080"),
			ReadTimeout:    getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:   getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:    getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			RequestTimeout: getEnvAsDuration("SERVER_REQUEST_TIMEOUT", 20*time.Second),
		},
		Database: DatabaseConfig{
			Driver:       getEnv("DB_DRIVER", "memory"),
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			Name:         getEnv("DB_NAME", "zotpot"),
			User:         getEnv("DB_USER", "zotpot"),
			Password:     getEnv("DB_PASSWORD", "zotpot"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 2),
			MaxLifetime:  getEnvAsDuration("DB_MAX_LIFETIME", 300*time.Second),
		},
		Redis: RedisConfig{
			Enabled:      getEnvAsBool("REDIS_ENABLED", false),
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnv("REDIS_PORT", "6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvAsInt("REDIS_DB", 0),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 2),
		},
		JWT: JWTConfig{
			Secret:        getEnv("JWT_SECRET", "zotpot-local-development-secret-change-me"),
			IDTokenExpiry: getEnvAsDuration("JWT_ID_TOKEN_EXPIRE", time.Hour),
		},
		Security: SecurityConfig{
			BcryptCost:         getEnvAsInt("BCRYPT_COST", 12),
			PasswordMinLength:  getEnvAsInt("PASSWORD_MIN_LENGTH", 6),
			CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:19006"}),
			CORSAllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			CORSAllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"}),
			TrustedProxies:     getEnvAsSlice("TRUSTED_PROXIES", []string{}),
			RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 20),
		},
		Storage: StorageConfig{
			Provider:          getEnv("STORAGE_PROVIDER", "local"),
			LocalPath:         getEnv("STORAGE_LOCAL_PATH", "./uploads"),
			CDNBaseURL:        getEnv("CDN_BASE_URL", ""),
			MaxSize:           getEnvAsInt64("UPLOAD_MAX_SIZE", 5242880), // 5MB
			AllowedExtensions: getEnvAsSlice("UPLOAD_ALLOWED_EXTENSIONS", []string{"jpg", "jpeg", "png", "webp"}),
		},
		Payment: PaymentConfig{
			KeyID:       getEnv("RAZORPAY_KEY_ID", ""),
			KeySecret:   getEnv("RAZORPAY_KEY_SECRET", ""),
			BaseURL:     getEnv("RAZORPAY_BASE_URL", "https://api.razorpay.com/v1"),
			Currency:    getEnv("PAYMENT_CURRENCY", "INR"),
			DeliveryFee: getEnvAsMoney("DELIVERY_FEE", money.New(40)),
			Timeout:     getEnvAsDuration("PAYMENT_TIMEOUT", 30*time.Second),
		},
		Tracking: TrackingConfig{
			URL:            getEnv("TRACKING_URL", "ws://localhost:8000/"),
			ReconnectDelay: getEnvAsDuration("TRACKING_RECONNECT_DELAY", 2*time.Second),
			MaxReconnects:  getEnvAsInt("TRACKING_MAX_RECONNECTS", 10),
		},
		Cart: CartConfig{
			SessionID:  getEnv("CART_SESSION_ID", "local-device"),
			SessionTTL: getEnvAsDuration("CART_SESSION_TTL", 24*time.Hour),
		},
		Email: EmailConfig{
			Provider:         getEnv("EMAIL_PROVIDER", "log"),
			SMTPHost:         getEnv("SMTP_HOST", ""),
			SMTPPort:         getEnvAsInt("SMTP_PORT", 587),
			SMTPUsername:     getEnv("SMTP_USERNAME", ""),
			SMTPPassword:     getEnv("SMTP_PASSWORD", ""),
			SMTPUseTLS:       getEnvAsBool("SMTP_USE_TLS", false),
			APIKey:           getEnv("EMAIL_API_KEY", ""),
			APIBaseURL:       getEnv("EMAIL_API_BASE_URL", ""),
			FromEmail:        getEnv("EMAIL_FROM", "noreply@zotpot.app"),
			FromName:         getEnv("EMAIL_FROM_NAME", "ZotPot"),
			ReplyTo:          getEnv("EMAIL_REPLY_TO", ""),
			BaseURL:          getEnv("EMAIL_BASE_URL", "zotpot://app"),
			TemplateDir:      getEnv("EMAIL_TEMPLATE_DIR", ""),
			ResetTokenExpiry: getEnvAsDuration("PASSWORD_RESET_EXPIRE", time.Hour),
		},
		Store: StoreConfig{
			PermissiveTransitions: getEnvAsBool("STORE_PERMISSIVE_TRANSITIONS", false),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
			File:   getEnv("LOG_FILE", ""),
		},
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters long")
	}

	switch c.Database.Driver {
	case "memory":
	case "postgres":
		if c.Database.Host == "" {
			return fmt.Errorf("DB_HOST is required")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("DB_NAME is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("DB_USER is required")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}

	if c.Redis.Enabled && c.Redis.Host == "" {
		return fmt.Errorf("REDIS_HOST is required")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("APP_PORT is required")
	}

	if (c.Payment.KeyID == "") != (c.Payment.KeySecret == "") {
		return fmt.Errorf("RAZORPAY_KEY_ID and RAZORPAY_KEY_SECRET must be set together")
	}
	if c.Payment.DeliveryFee.IsNegative() {
		return fmt.Errorf("DELIVERY_FEE must not be negative")
	}

	switch c.Email.Provider {
	case "log":
	case "smtp":
		if c.Email.SMTPHost == "" {
			return fmt.Errorf("SMTP_HOST is required")
		}
	case "resend", "sendgrid":
		if c.Email.APIKey == "" {
			return fmt.Errorf("EMAIL_API_KEY is required")
		}
	default:
		return fmt.Errorf("unsupported EMAIL_PROVIDER %q", c.Email.Provider)
	}

	if c.Security.PasswordMinLength < 1 {
		return fmt.Errorf("PASSWORD_MIN_LENGTH must be positive")
	}

	return nil
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// PaymentsEnabled reports whether Razorpay credentials are configured
func (c *Config) PaymentsEnabled() bool {
	return c.Payment.KeyID != "" && c.Payment.KeySecret != ""
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsMoney(key string, defaultValue money.Money) money.Money {
	if value := os.Getenv(key); value != "" {
		if amount, err := money.Parse(value); err == nil {
			return amount
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return defaultValue
}
