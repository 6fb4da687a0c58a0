// internal/common/config/config.go
package config

import (
	"fmt"
	"time"
)

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig          `mapstructure:"app"`
	Server        ServerConfig       `mapstructure:"server"`
	Database      DatabaseConfig     `mapstructure:"database"`
	Integrations  IntegrationConfig  `mapstructure:"integrations"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Submission    SubmissionConfig   `mapstructure:"submission"`
	Registry      RegistryConfig     `mapstructure:"registry"`
	Logging       LoggingConfig      `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address           string `mapstructure:"address"`
	ReadTimeout       int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout      int    `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout   int    `mapstructure:"shutdown_timeout"` // milliseconds
	MaxBodyBytes      int64  `mapstructure:"max_body_bytes"`
	TrustProxyHeaders bool   `mapstructure:"trust_proxy_headers"` // key rate limits on X-Forwarded-For
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	URL            string `mapstructure:"url"` // takes precedence over the discrete fields
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
	AutoMigrate    bool   `mapstructure:"auto_migrate"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	if p.URL != "" {
		return p.URL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// IntegrationConfig holds settings for the AWS email and alert services.
type IntegrationConfig struct {
	AWS struct {
		Region string `mapstructure:"region"`
		SES    struct {
			Enabled   bool   `mapstructure:"enabled"`
			FromEmail string `mapstructure:"from_email"`
		} `mapstructure:"ses"`
		SNS struct {
			Enabled  bool   `mapstructure:"enabled"`
			TopicARN string `mapstructure:"topic_arn"`
		} `mapstructure:"sns"`
	} `mapstructure:"aws"`
}

// NotificationConfig holds settings for the send-notification step.
type NotificationConfig struct {
	Email struct {
		StaffAddress string `mapstructure:"staff_address"`
		FailOnError  bool   `mapstructure:"fail_on_error"`
	} `mapstructure:"email"`
}

// SubmissionConfig tunes the submit endpoint.
type SubmissionConfig struct {
	Timeout   int `mapstructure:"timeout"` // milliseconds, per collaborator call
	RateLimit struct {
		Enabled bool `mapstructure:"enabled"`
		Limit   int  `mapstructure:"limit"`  // submissions per window per client
		Window  int  `mapstructure:"window"` // milliseconds
	} `mapstructure:"rate_limit"`
}

type RegistryConfig struct {
	Path string `mapstructure:"path"` // optional override of the embedded option catalog
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
