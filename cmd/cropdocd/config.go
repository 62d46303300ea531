package main

import (
	"fmt"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	// Server settings
	Host        string
	Port        int
	Environment string
	LogLevel    string

	// Database settings
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	// Session settings
	SessionDuration time.Duration
	SessionSecure   bool

	// Identity provider settings
	IdentityProvider  string
	IdentityVerifyURL string

	// Contact form settings
	ContactProvider      string
	ContactPostmarkToken string
	ContactFromAddress   string
	ContactToAddress     string

	// Storage settings
	StorageProvider  string
	StorageLocalPath string
	StorageLocalURL  string
	StorageS3Bucket  string
	StorageS3Region  string
	StorageS3BaseURL string

	// AI settings
	AIProvider     string
	AIClaudeAPIKey string
	AIClaudeModel  string
	AIMaxTokens    int
	AITemperature  float64

	// Queue settings
	QueueWorkerCount      int
	QueuePollInterval     time.Duration
	QueueJobTimeout       time.Duration
	QueueShutdownTimeout  time.Duration
	QueueCleanupInterval  time.Duration
	QueueCleanupRetention time.Duration

	// Session cleanup
	SessionCleanupInterval time.Duration
}

// LoadConfig loads configuration from environment variables.
func LoadConfig(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		// Server settings
		Host:        envString(getenv, "SERVER_HOST", "localhost"),
		Port:        envInt(getenv, "SERVER_PORT", 8080),
		Environment: envString(getenv, "ENVIRONMENT", "dev"),
		LogLevel:    envString(getenv, "LOG_LEVEL", "info"),

		// Database settings
		DBUser:     envString(getenv, "DB_USER", "postgres"),
		DBPassword: envString(getenv, "DB_PASSWORD", ""),
		DBHost:     envString(getenv, "DB_HOSTNAME", "localhost"),
		DBPort:     envString(getenv, "DB_PORT", "5432"),
		DBName:     envString(getenv, "DB_NAME", "cropdoc"),

		// Session settings
		SessionDuration: envDuration(getenv, "SESSION_DURATION", 7*24*time.Hour),

		// Identity provider settings
		IdentityProvider:  envString(getenv, "IDENTITY_PROVIDER", "mock"),
		IdentityVerifyURL: envString(getenv, "IDENTITY_VERIFY_URL", ""),

		// Contact form settings
		ContactProvider:      envString(getenv, "CONTACT_PROVIDER", "mock"),
		ContactPostmarkToken: envString(getenv, "POSTMARK_SERVER_TOKEN", ""),
		ContactFromAddress:   envString(getenv, "CONTACT_FROM_ADDRESS", "noreply@example.com"),
		ContactToAddress:     envString(getenv, "CONTACT_TO_ADDRESS", "support@example.com"),

		// Storage settings
		StorageProvider:  envString(getenv, "STORAGE_PROVIDER", "local"),
		StorageLocalPath: envString(getenv, "STORAGE_LOCAL_PATH", "./uploads"),
		StorageLocalURL:  envString(getenv, "STORAGE_LOCAL_URL", "http://localhost:8080/uploads"),
		StorageS3Bucket:  envString(getenv, "STORAGE_S3_BUCKET", ""),
		StorageS3Region:  envString(getenv, "STORAGE_S3_REGION", "us-east-1"),
		StorageS3BaseURL: envString(getenv, "STORAGE_S3_BASE_URL", ""),

		// AI settings
		AIProvider:     envString(getenv, "AI_PROVIDER", "mock"),
		AIClaudeAPIKey: envString(getenv, "CLAUDE_API_KEY", ""),
		AIClaudeModel:  envString(getenv, "CLAUDE_MODEL", "claude-3-5-sonnet-20241022"),
		AIMaxTokens:    envInt(getenv, "AI_MAX_TOKENS", 1024),
		AITemperature:  envFloat(getenv, "AI_TEMPERATURE", 0.3),

		// Queue settings
		QueueWorkerCount:      envInt(getenv, "QUEUE_WORKER_COUNT", 3),
		QueuePollInterval:     envDuration(getenv, "QUEUE_POLL_INTERVAL", time.Second),
		QueueJobTimeout:       envDuration(getenv, "QUEUE_JOB_TIMEOUT", 60*time.Second),
		QueueShutdownTimeout:  30 * time.Second,
		QueueCleanupInterval:  time.Hour,
		QueueCleanupRetention: envDuration(getenv, "QUEUE_CLEANUP_RETENTION", 24*time.Hour),

		// Session cleanup
		SessionCleanupInterval: time.Hour,
	}

	// Session secure only in production
	cfg.SessionSecure = cfg.Environment == "prod" || cfg.Environment == "production"

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// DatabaseURL returns the PostgreSQL connection string.
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// validate checks cross-field requirements.
func (c *Config) validate() error {
	if c.AIProvider == "claude" && c.AIClaudeAPIKey == "" {
		return fmt.Errorf("CLAUDE_API_KEY must be set when AI_PROVIDER=claude")
	}
	if c.StorageProvider == "s3" && c.StorageS3Bucket == "" {
		return fmt.Errorf("STORAGE_S3_BUCKET must be set when STORAGE_PROVIDER=s3")
	}
	if c.IdentityProvider == "http" && c.IdentityVerifyURL == "" {
		return fmt.Errorf("IDENTITY_VERIFY_URL must be set when IDENTITY_PROVIDER=http")
	}
	if c.ContactProvider == "postmark" && c.ContactPostmarkToken == "" {
		return fmt.Errorf("POSTMARK_SERVER_TOKEN must be set when CONTACT_PROVIDER=postmark")
	}
	return nil
}

// Helper functions for loading environment variables with defaults.

func envString(getenv func(string) string, key, defaultValue string) string {
	if value := getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func envInt(getenv func(string) string, key string, defaultValue int) int {
	if value := getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func envFloat(getenv func(string) string, key string, defaultValue float64) float64 {
	if value := getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func envDuration(getenv func(string) string, key string, defaultValue time.Duration) time.Duration {
	if value := getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
