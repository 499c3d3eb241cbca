package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	customerrors "github.com/axellelanca/quickurl/internal/errors"
)

// Config represents the main structure mapping the entire application configuration.
// This struct uses mapstructure tags to map YAML keys and env variables to Go struct fields.
type Config struct {
	// Server configuration section containing HTTP server settings
	Server struct {
		Port                   int    `mapstructure:"port" validate:"min=1,max=65535"`
		BaseURL                string `mapstructure:"base_url" validate:"required,url"` // Prefix of every shortened URL
		ReadTimeoutSeconds     int    `mapstructure:"read_timeout_seconds" validate:"min=1"`
		WriteTimeoutSeconds    int    `mapstructure:"write_timeout_seconds" validate:"min=1"`
		ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"min=1"`
	} `mapstructure:"server"`

	Database DatabaseConfig `mapstructure:"database"`

	Log LogConfig `mapstructure:"log"`

	// Validation controls the reachability check performed before a link is created
	Validation struct {
		Enabled        bool `mapstructure:"enabled"`
		TimeoutSeconds int  `mapstructure:"timeout_seconds" validate:"min=1"`
	} `mapstructure:"validation"`

	// Monitor configuration for periodic link health checking
	Monitor struct {
		Enabled         bool `mapstructure:"enabled"`
		IntervalMinutes int  `mapstructure:"interval_minutes" validate:"min=1"`
	} `mapstructure:"monitor"`

	Discord struct {
		Enabled bool   `mapstructure:"enabled"`
		Token   string `mapstructure:"token" validate:"required_if=Enabled true"`
		GuildID string `mapstructure:"guild_id"`
	} `mapstructure:"discord"`
}

// DatabaseConfig holds the SQLite settings.
type DatabaseConfig struct {
	Name          string `mapstructure:"name" validate:"required"` // SQLite database file name
	BusyTimeoutMs int    `mapstructure:"busy_timeout_ms" validate:"min=0"`
}

// LogConfig holds the logger settings.
type LogConfig struct {
	Level      string `mapstructure:"level" validate:"oneof=trace debug info warn error fatal panic"`
	Format     string `mapstructure:"format" validate:"oneof=console json"`
	File       string `mapstructure:"file"` // Empty disables file logging
	MaxSizeMB  int    `mapstructure:"max_size_mb" validate:"min=1"`
	MaxBackups int    `mapstructure:"max_backups" validate:"min=0"`
}

// ReadTimeout returns the HTTP server read timeout.
func (c *Config) ReadTimeout() time.Duration {
	return time.Duration(c.Server.ReadTimeoutSeconds) * time.Second
}

// WriteTimeout returns the HTTP server write timeout.
func (c *Config) WriteTimeout() time.Duration {
	return time.Duration(c.Server.WriteTimeoutSeconds) * time.Second
}

// ShutdownTimeout returns how long the server waits for in-flight requests on shutdown.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.Server.ShutdownTimeoutSeconds) * time.Second
}

// ValidationTimeout returns the timeout of a single reachability check.
func (c *Config) ValidationTimeout() time.Duration {
	return time.Duration(c.Validation.TimeoutSeconds) * time.Second
}

// MonitorInterval returns the delay between two monitor passes.
func (c *Config) MonitorInterval() time.Duration {
	return time.Duration(c.Monitor.IntervalMinutes) * time.Minute
}

// setDefaults registers the default value of every configuration option.
// These are used when no config file is found or when specific keys are missing.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.read_timeout_seconds", 10)
	v.SetDefault("server.write_timeout_seconds", 10)
	v.SetDefault("server.shutdown_timeout_seconds", 5)
	v.SetDefault("database.name", "quickurl.db")
	v.SetDefault("database.busy_timeout_ms", 5000)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("validation.enabled", true)
	v.SetDefault("validation.timeout_seconds", 10)
	v.SetDefault("monitor.enabled", false)
	v.SetDefault("monitor.interval_minutes", 5)
	v.SetDefault("discord.enabled", false)
	v.SetDefault("discord.token", "")
	v.SetDefault("discord.guild_id", "")
}

// LoadConfig loads the application configuration from ./configs/config.yaml.
func LoadConfig() (*Config, error) {
	return LoadConfigFrom("./configs")
}

// LoadConfigFrom loads the configuration using Viper, looking for config.yaml in dir.
// Environment variables override file values, e.g. SERVER_PORT for server.port.
// A missing config file is not an error: defaults are used instead.
func LoadConfigFrom(dir string) (*Config, error) {
	v := viper.New()

	// "server.port" becomes "SERVER_PORT"
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.AddConfigPath(dir)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Permissions, malformed YAML, etc.
			return nil, customerrors.ErrConfigLoad{Path: dir, Reason: err.Error()}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the struct tags of the loaded configuration.
func Validate(cfg *Config) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
