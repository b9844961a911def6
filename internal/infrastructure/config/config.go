package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App         AppConfig
	Database    DatabaseConfig
	Log         LogConfig
	HTTP        HTTPConfig
	Marketplace MarketplaceConfig
	Sync        SyncConfig
	Purge       PurgeConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// MarketplaceConfig holds settings for the external seller API
type MarketplaceConfig struct {
	BaseURL        string
	Timeout        time.Duration
	RetryAttempts  int           // attempts per call on HTTP 429
	RetryDelay     time.Duration // fixed delay between 429 retries
	PageSize       int           // card listing page size
	CallsPerMinute int           // global per-credential call budget
}

// SyncConfig holds sync scheduler and orchestrator configuration
type SyncConfig struct {
	Enabled           bool
	Workers           int // bounded pool size across cabinets
	MaxConcurrentJobs int // queued run requests executed at once
	JobTimeout        time.Duration
	QueueSize         int
	DailyHour         int // hour of day for the recurring full run
	DailyMinute       int
	LookbackDays      int // date window width for a scheduled run
}

// PurgeConfig holds cabinet teardown configuration
type PurgeConfig struct {
	BatchSize int // rows deleted per transaction
}

// DSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// URL returns the PostgreSQL connection URL for the migrate CLI
func (c *DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with SELLERPULSE_ prefix (e.g., SELLERPULSE_DATABASE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("SELLERPULSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:  v.GetDuration("http.read_timeout"),
			WriteTimeout: v.GetDuration("http.write_timeout"),
			IdleTimeout:  v.GetDuration("http.idle_timeout"),
		},
		Marketplace: MarketplaceConfig{
			BaseURL:        v.GetString("marketplace.base_url"),
			Timeout:        v.GetDuration("marketplace.timeout"),
			RetryAttempts:  v.GetInt("marketplace.retry_attempts"),
			RetryDelay:     v.GetDuration("marketplace.retry_delay"),
			PageSize:       v.GetInt("marketplace.page_size"),
			CallsPerMinute: v.GetInt("marketplace.calls_per_minute"),
		},
		Sync: SyncConfig{
			Enabled:           v.GetBool("sync.enabled"),
			Workers:           v.GetInt("sync.workers"),
			MaxConcurrentJobs: v.GetInt("sync.max_concurrent_jobs"),
			JobTimeout:        v.GetDuration("sync.job_timeout"),
			QueueSize:         v.GetInt("sync.queue_size"),
			DailyHour:         v.GetInt("sync.daily_hour"),
			DailyMinute:       v.GetInt("sync.daily_minute"),
			LookbackDays:      v.GetInt("sync.lookback_days"),
		},
		Purge: PurgeConfig{
			BatchSize: v.GetInt("purge.batch_size"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setDefaults registers the built-in defaults
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "sellerpulse")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "sellerpulse")
	v.SetDefault("database.dbname", "sellerpulse")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 30)
	v.SetDefault("database.conn_max_idle_time", 10)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("http.read_timeout", 15*time.Second)
	v.SetDefault("http.write_timeout", 30*time.Second)
	v.SetDefault("http.idle_timeout", 60*time.Second)

	v.SetDefault("marketplace.base_url", "https://api.marketplace.example")
	v.SetDefault("marketplace.timeout", 30*time.Second)
	v.SetDefault("marketplace.retry_attempts", 5)
	v.SetDefault("marketplace.retry_delay", 20*time.Second)
	v.SetDefault("marketplace.page_size", 100)
	v.SetDefault("marketplace.calls_per_minute", 60)

	v.SetDefault("sync.enabled", true)
	v.SetDefault("sync.workers", 4)
	v.SetDefault("sync.max_concurrent_jobs", 2)
	v.SetDefault("sync.job_timeout", 30*time.Minute)
	v.SetDefault("sync.queue_size", 100)
	v.SetDefault("sync.daily_hour", 3)
	v.SetDefault("sync.daily_minute", 0)
	v.SetDefault("sync.lookback_days", 7)

	v.SetDefault("purge.batch_size", 20)
}

// Validate checks configuration invariants that would otherwise only
// surface deep inside a sync run
func (c *Config) Validate() error {
	if c.Marketplace.RetryAttempts <= 0 {
		return fmt.Errorf("marketplace.retry_attempts must be positive")
	}
	if c.Marketplace.PageSize <= 0 {
		return fmt.Errorf("marketplace.page_size must be positive")
	}
	if c.Marketplace.CallsPerMinute <= 0 {
		return fmt.Errorf("marketplace.calls_per_minute must be positive")
	}
	if c.Sync.Workers <= 0 {
		return fmt.Errorf("sync.workers must be positive")
	}
	if c.Sync.MaxConcurrentJobs <= 0 {
		return fmt.Errorf("sync.max_concurrent_jobs must be positive")
	}
	if c.Sync.LookbackDays <= 0 {
		return fmt.Errorf("sync.lookback_days must be positive")
	}
	if c.Sync.DailyHour < 0 || c.Sync.DailyHour > 23 {
		return fmt.Errorf("sync.daily_hour must be between 0 and 23")
	}
	if c.Sync.DailyMinute < 0 || c.Sync.DailyMinute > 59 {
		return fmt.Errorf("sync.daily_minute must be between 0 and 59")
	}
	if c.Purge.BatchSize <= 0 {
		return fmt.Errorf("purge.batch_size must be positive")
	}
	return nil
}

// IsProduction returns true when running in the production environment
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
