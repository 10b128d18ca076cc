package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds the application configuration with validation
type Config struct {
	// Application settings
	Port     int    `validate:"required,min=1,max=65535"`
	LogLevel string `validate:"required,oneof=debug info warn error"`

	// Database settings
	Database DatabaseConfig `validate:"required"`

	// External services
	Notifier NotifierConfig `validate:"required"`

	// Security settings
	Security SecurityConfig `validate:"required"`

	// Performance settings
	Server ServerConfig `validate:"required"`
}

// DatabaseConfig holds database configuration. Either URL carries the
// full connection string (credentials included) or the discrete
// host/user/password/name settings must all be present. Missing
// credentials are a fatal startup condition.
type DatabaseConfig struct {
	URL             string `validate:"omitempty"`
	Host            string `validate:"required_without=URL"`
	Port            int    `validate:"min=0,max=65535"`
	User            string `validate:"required_without=URL"`
	Password        string `validate:"required_without=URL"`
	Name            string `validate:"required_without=URL"`
	SSLMode         string `validate:"omitempty,oneof=disable require verify-ca verify-full"`
	MaxOpenConns    int    `validate:"min=1"`
	MaxIdleConns    int    `validate:"min=1"`
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// NotifierConfig holds the entry-request webhook configuration. An empty
// URL disables notifications.
type NotifierConfig struct {
	URL            string        `validate:"omitempty,url"`
	Timeout        time.Duration `validate:"required"`
	RetryAttempts  int           `validate:"min=0,max=10"`
	RetryDelay     time.Duration
	MaxPayloadSize int64 `validate:"min=1024"`
}

// SecurityConfig holds security-related configuration
type SecurityConfig struct {
	RateLimitRPS    int           `validate:"min=1"`
	RateLimitBurst  int           `validate:"min=1"`
	RequestTimeout  time.Duration `validate:"required"`
	ShutdownTimeout time.Duration `validate:"required"`
	EnableCORS      bool
	AllowedOrigins  []string
}

// ServerConfig holds server performance configuration
type ServerConfig struct {
	ReadTimeout    time.Duration `validate:"required"`
	WriteTimeout   time.Duration `validate:"required"`
	IdleTimeout    time.Duration `validate:"required"`
	MaxHeaderBytes int           `validate:"min=1024"`
}

// LoadConfig loads and validates the configuration from environment
// variables. A .env file in the working directory is read first when
// present.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	config := &Config{
		Port:     getEnvAsInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		Database: DatabaseConfig{
			URL:             getEnv("DB_URL", ""),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", ""),
			Password:        getEnv("DB_PASSWORD", ""),
			Name:            getEnv("DB_NAME", ""),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 25),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			ConnMaxIdleTime: getEnvAsDuration("DB_CONN_MAX_IDLE_TIME", 5*time.Minute),
		},

		Notifier: NotifierConfig{
			URL:            getEnv("NOTIFIER_URL", ""),
			Timeout:        getEnvAsDuration("NOTIFIER_TIMEOUT", 10*time.Second),
			RetryAttempts:  getEnvAsInt("NOTIFIER_RETRY_ATTEMPTS", 3),
			RetryDelay:     getEnvAsDuration("NOTIFIER_RETRY_DELAY", time.Second),
			MaxPayloadSize: getEnvAsInt64("NOTIFIER_MAX_PAYLOAD_SIZE", 1024*1024),
		},

		Security: SecurityConfig{
			RateLimitRPS:    getEnvAsInt("RATE_LIMIT_RPS", 100),
			RateLimitBurst:  getEnvAsInt("RATE_LIMIT_BURST", 200),
			RequestTimeout:  getEnvAsDuration("REQUEST_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
			EnableCORS:      getEnvAsBool("ENABLE_CORS", true),
			AllowedOrigins:  getEnvAsSlice("ALLOWED_ORIGINS", []string{"*"}),
		},

		Server: ServerConfig{
			ReadTimeout:    getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:   getEnvAsDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:    getEnvAsDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
			MaxHeaderBytes: getEnvAsInt("SERVER_MAX_HEADER_BYTES", 1<<20), // 1MB
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// validateConfig runs the struct tags through the validator.
func validateConfig(config *Config) error {
	validate := validator.New(validator.WithRequiredStructEnabled())

	if err := validate.Struct(config); err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) {
			messages := make([]string, 0, len(errs))
			for _, fieldErr := range errs {
				messages = append(messages, fmt.Sprintf("%s failed on %q", fieldErr.Namespace(), fieldErr.Tag()))
			}
			return fmt.Errorf("validation errors: %s", strings.Join(messages, "; "))
		}
		return err
	}

	return nil
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
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
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

func getEnvAsSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}

// GetDatabaseDSN returns the database connection string. DB_URL wins
// when set; otherwise the discrete settings are assembled.
func (c *Config) GetDatabaseDSN() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host, c.Database.Port, c.Database.User,
		c.Database.Password, c.Database.Name, c.Database.SSLMode)
}
