package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Env        string
	ServerPort string
	LogLevel   string

	DatabaseType   string
	DatabasePath   string
	DatabaseURL    string
	MigrationsPath string

	AWSRegion    string
	SESFromEmail string
	SESFromName  string
	AppBaseURL   string
	EmailDebug   bool

	JWTSecret           string
	RecapTriggerSecret  string
	RecapTestRecipients []string
	AllowedOrigins      []string

	ResubmissionPolicy string
	StreakWindow       int
	RecapDefaultLimit  int
}

// ConfigurationError reports a required setting that is missing or unusable.
type ConfigurationError struct {
	Setting string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("configuration error: %s is not set", e.Setting)
	}
	return fmt.Sprintf("configuration error: %s %s", e.Setting, e.Reason)
}

// Load reads configuration from the environment (and a .env file when present)
// with sensible defaults
func Load() *Config {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	return &Config{
		Env:        getEnv("ENV", "dev"),
		ServerPort: getEnv("PORT", "8080"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),

		DatabaseType:   getEnv("DB_TYPE", "sqlite"),
		DatabasePath:   getEnv("DB_PATH", "./runpool.db"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),

		AWSRegion:    getEnv("AWS_REGION", "us-east-1"),
		SESFromEmail: os.Getenv("SES_FROM_EMAIL"),
		SESFromName:  getEnv("SES_FROM_NAME", "RunPool"),
		AppBaseURL:   getEnv("APP_BASE_URL", "http://localhost:8080"),
		EmailDebug:   getEnvBool("EMAIL_DEBUG", false),

		JWTSecret:           os.Getenv("JWT_SECRET"),
		RecapTriggerSecret:  os.Getenv("RECAP_TRIGGER_SECRET"),
		RecapTestRecipients: getEnvList("RECAP_TEST_RECIPIENTS"),
		AllowedOrigins:      getEnvList("CORS_ALLOWED_ORIGINS"),

		ResubmissionPolicy: getEnv("RESUBMISSION_POLICY", "additive"),
		StreakWindow:       getEnvInt("STREAK_WINDOW", 8),
		RecapDefaultLimit:  getEnvInt("RECAP_DEFAULT_LIMIT", 10),
	}
}

// Validate checks the settings the server cannot run without. Database
// settings are checked separately by the database package so the server can
// still start and report them per request.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return &ConfigurationError{Setting: "JWT_SECRET"}
	}
	if c.StreakWindow < 1 {
		return &ConfigurationError{Setting: "STREAK_WINDOW", Reason: "must be at least 1"}
	}
	if c.RecapDefaultLimit < 1 {
		return &ConfigurationError{Setting: "RECAP_DEFAULT_LIMIT", Reason: "must be at least 1"}
	}
	return nil
}

// IsProduction reports whether the app runs with production defaults
func (c *Config) IsProduction() bool {
	return c.Env == "prod" || c.Env == "production"
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

// getEnvList splits a comma separated variable, dropping blanks
func getEnvList(key string) []string {
	return SplitList(os.Getenv(key))
}

// SplitList splits a comma separated string into trimmed, non-empty items
func SplitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
