package config

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all configuration for our application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Billing   BillingConfig   `mapstructure:"billing"`
	Health    HealthConfig    `mapstructure:"health"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"SERVER_PORT"`
	Host         string        `mapstructure:"SERVER_HOST"`
	Env          string        `mapstructure:"ENV"`
	ReadTimeout  time.Duration `mapstructure:"SERVER_READ_TIMEOUT"`
	WriteTimeout time.Duration `mapstructure:"SERVER_WRITE_TIMEOUT"`
}

type DatabaseConfig struct {
	URL             string        `mapstructure:"DATABASE_URL"`
	MaxOpenConns    int           `mapstructure:"DATABASE_MAX_OPEN_CONNS"`
	MaxIdleConns    int           `mapstructure:"DATABASE_MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `mapstructure:"DATABASE_CONN_MAX_LIFETIME"`
}

type RedisConfig struct {
	Host     string `mapstructure:"REDIS_HOST"`
	Port     string `mapstructure:"REDIS_PORT"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
}

type SchedulerConfig struct {
	OverdueCron string `mapstructure:"SCHEDULER_OVERDUE_CRON"`
	Timezone    string `mapstructure:"SCHEDULER_TIMEZONE"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"LOG_LEVEL"`
	Format string `mapstructure:"LOG_FORMAT"`
}

// BillingConfig carries the booking-time business constraints.
type BillingConfig struct {
	MaxHourlyRate        string `mapstructure:"MAX_HOURLY_RATE"`
	MinLessonMinutes     int    `mapstructure:"MIN_LESSON_MINUTES"`
	MinLegacyMinutes     int    `mapstructure:"MIN_LEGACY_LESSON_MINUTES"`
	MaxLessonHours       int    `mapstructure:"MAX_LESSON_HOURS"`
	InvoiceDueDays       int    `mapstructure:"INVOICE_DUE_DAYS"`
	NotifyChannelPattern string `mapstructure:"NOTIFY_CHANNEL_PATTERN"`
}

type HealthConfig struct {
	Timeout string `mapstructure:"HEALTH_CHECK_TIMEOUT"`
}

// Load reads configuration from environment variables and files
func Load() (*Config, error) {
	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("SERVER_READ_TIMEOUT", "15s")
	viper.SetDefault("SERVER_WRITE_TIMEOUT", "15s")
	viper.SetDefault("DATABASE_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DATABASE_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DATABASE_CONN_MAX_LIFETIME", "5m")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")
	viper.SetDefault("MAX_HOURLY_RATE", "999")
	viper.SetDefault("MIN_LESSON_MINUTES", 5)
	viper.SetDefault("MIN_LEGACY_LESSON_MINUTES", 15)
	viper.SetDefault("MAX_LESSON_HOURS", 24)
	viper.SetDefault("INVOICE_DUE_DAYS", 14)
	viper.SetDefault("NOTIFY_CHANNEL_PATTERN", "coach:%s:refresh")
	viper.SetDefault("SCHEDULER_OVERDUE_CRON", "0 0 0 * * *")
	viper.SetDefault("SCHEDULER_TIMEZONE", "UTC")
	viper.SetDefault("HEALTH_CHECK_TIMEOUT", "5s")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read from .env file (optional)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./deployments")

	// Don't fail if .env file doesn't exist
	_ = viper.ReadInConfig()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Billing.MinLessonMinutes <= 0 {
		return fmt.Errorf("MIN_LESSON_MINUTES must be greater than 0")
	}

	if c.Billing.MinLegacyMinutes < c.Billing.MinLessonMinutes {
		return fmt.Errorf("MIN_LEGACY_LESSON_MINUTES must be at least MIN_LESSON_MINUTES")
	}

	if c.Billing.MaxLessonHours <= 0 {
		return fmt.Errorf("MAX_LESSON_HOURS must be greater than 0")
	}

	if c.Billing.InvoiceDueDays <= 0 {
		return fmt.Errorf("INVOICE_DUE_DAYS must be greater than 0")
	}

	// Validate max hourly rate
	if _, err := decimal.NewFromString(c.Billing.MaxHourlyRate); err != nil {
		return fmt.Errorf("MAX_HOURLY_RATE must be a valid decimal: %w", err)
	}

	// Validate health check timeout
	if _, err := time.ParseDuration(c.Health.Timeout); err != nil {
		return fmt.Errorf("HEALTH_CHECK_TIMEOUT must be a valid duration: %w", err)
	}

	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production" || c.Server.Env == "prod"
}

// GetMaxHourlyRate returns the maximum bookable hourly rate as decimal
func (c *Config) GetMaxHourlyRate() decimal.Decimal {
	rate, _ := decimal.NewFromString(c.Billing.MaxHourlyRate)
	return rate
}

// GetHealthTimeout returns the health check timeout as duration
func (c *Config) GetHealthTimeout() time.Duration {
	timeout, _ := time.ParseDuration(c.Health.Timeout)
	return timeout
}
