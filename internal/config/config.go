// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Application run modes
const (
	ModeServer   = "server"
	ModeScenario = "scenario"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig   `mapstructure:"server"`
	Database  DatabaseConfig `mapstructure:"database"`
	Logging   LoggingConfig  `mapstructure:"logging"`
	Generator DeviceConfig   `mapstructure:"generator"`
	Capture   CaptureConfig  `mapstructure:"capture"`
	Scenario  ScenarioConfig `mapstructure:"scenario"`
	App       AppConfig      `mapstructure:"app"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host           string        `mapstructure:"host" validate:"required"`
	Port           int           `mapstructure:"port" validate:"required"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
}

// DatabaseConfig represents the optional capture archive
type DatabaseConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	User           string        `mapstructure:"user"`
	Password       string        `mapstructure:"password"`
	DBName         string        `mapstructure:"dbname"`
	SSLMode        string        `mapstructure:"sslmode"`
	MaxOpenConns   int           `mapstructure:"max_open_conns"`
	MaxIdleConns   int           `mapstructure:"max_idle_conns"`
	MaxLifetime    time.Duration `mapstructure:"max_lifetime"`
	MigrationsPath string        `mapstructure:"migrations_path"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level" validate:"required"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// DeviceConfig is the generator's address and the timeout policy used on
// its connection. ReplyTimeout bounds ack reads; IdleTimeout is the silence
// that ends a debug burst.
type DeviceConfig struct {
	Host           string        `mapstructure:"host" validate:"required"`
	Port           int           `mapstructure:"port" validate:"required"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	ReplyTimeout   time.Duration `mapstructure:"reply_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	KeepAlive      bool          `mapstructure:"keep_alive"`
	AckBufferSize  int           `mapstructure:"ack_buffer_size"`
	ChunkSize      int           `mapstructure:"chunk_size"`
	DebugEnabled   bool          `mapstructure:"debug_enabled"`
}

// CaptureConfig controls what happens to debug bursts after decoding
type CaptureConfig struct {
	DumpPath        string        `mapstructure:"dump_path"`
	Retention       time.Duration `mapstructure:"retention"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	HistorySize     int           `mapstructure:"history_size"`
}

// ScenarioConfig drives the demo sequence runner
type ScenarioConfig struct {
	Loops           int           `mapstructure:"loops"`
	InitialInterval time.Duration `mapstructure:"initial_interval"`
	MaxInterval     time.Duration `mapstructure:"max_interval"`
	MaxRetries      int           `mapstructure:"max_retries"`
	Dump            bool          `mapstructure:"dump"`
}

// AppConfig represents application metadata
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Version     string `mapstructure:"version" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required"`
	Mode        string `mapstructure:"mode"`
}

// Load loads configuration from file and environment variables. An empty
// path searches the default locations; a missing file leaves the defaults.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/wavegen")
	}

	// Environment variable support
	v.SetEnvPrefix("WAVEGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Database defaults
	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "wavegen")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.max_lifetime", "5m")
	v.SetDefault("database.migrations_path", "file://migrations")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("logging.max_size", 100)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age", 28)
	v.SetDefault("logging.compress", true)

	// Generator defaults
	v.SetDefault("generator.host", "192.168.1.10")
	v.SetDefault("generator.port", 7)
	v.SetDefault("generator.connect_timeout", "3s")
	v.SetDefault("generator.reply_timeout", "3s")
	v.SetDefault("generator.idle_timeout", "3s")
	v.SetDefault("generator.write_timeout", "3s")
	v.SetDefault("generator.keep_alive", true)
	v.SetDefault("generator.ack_buffer_size", 100)
	v.SetDefault("generator.chunk_size", 500000)
	v.SetDefault("generator.debug_enabled", true)

	// Capture defaults
	v.SetDefault("capture.dump_path", "dump.txt")
	v.SetDefault("capture.retention", "168h")
	v.SetDefault("capture.cleanup_interval", "1h")
	v.SetDefault("capture.history_size", 16)

	// Scenario defaults
	v.SetDefault("scenario.loops", 0)
	v.SetDefault("scenario.initial_interval", "500ms")
	v.SetDefault("scenario.max_interval", "10s")
	v.SetDefault("scenario.max_retries", 0)
	v.SetDefault("scenario.dump", true)

	// App defaults
	v.SetDefault("app.name", "wavegen")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.mode", ModeServer)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Generator.Host == "" {
		return fmt.Errorf("generator.host is required")
	}
	if !validPort(config.Generator.Port) {
		return fmt.Errorf("generator.port must be between 1 and 65535, got %d", config.Generator.Port)
	}
	timeouts := map[string]time.Duration{
		"generator.connect_timeout": config.Generator.ConnectTimeout,
		"generator.reply_timeout":   config.Generator.ReplyTimeout,
		"generator.idle_timeout":    config.Generator.IdleTimeout,
		"generator.write_timeout":   config.Generator.WriteTimeout,
	}
	for key, d := range timeouts {
		if d <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	if config.Generator.AckBufferSize < 2 {
		return fmt.Errorf("generator.ack_buffer_size must be at least 2")
	}
	if config.Generator.ChunkSize < 1024 {
		return fmt.Errorf("generator.chunk_size must be at least 1024")
	}

	if config.App.Mode != ModeServer && config.App.Mode != ModeScenario {
		return fmt.Errorf("app.mode must be one of: %v", []string{ModeServer, ModeScenario})
	}
	if config.App.Mode == ModeServer {
		if config.Server.Host == "" {
			return fmt.Errorf("server.host is required")
		}
		if !validPort(config.Server.Port) {
			return fmt.Errorf("server.port must be between 1 and 65535, got %d", config.Server.Port)
		}
	}

	if config.Database.Enabled {
		if config.Database.Host == "" || config.Database.DBName == "" {
			return fmt.Errorf("database.host and database.dbname are required when database.enabled")
		}
	}

	// Validate environment
	validEnvs := []string{"development", "staging", "production", "test"}
	isValidEnv := false
	for _, env := range validEnvs {
		if config.App.Environment == env {
			isValidEnv = true
			break
		}
	}
	if !isValidEnv {
		return fmt.Errorf("app.environment must be one of: %v", validEnvs)
	}

	// Validate logging level
	validLevels := []string{"debug", "info", "warn", "error", "fatal"}
	isValidLevel := false
	for _, level := range validLevels {
		if config.Logging.Level == level {
			isValidLevel = true
			break
		}
	}
	if !isValidLevel {
		return fmt.Errorf("logging.level must be one of: %v", validLevels)
	}

	return nil
}

func validPort(port int) bool {
	return port > 0 && port <= 65535
}

// GetServerAddr returns the server address
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// IsProduction checks if the environment is production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}
