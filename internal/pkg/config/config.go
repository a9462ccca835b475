package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Database   DatabaseConfig   `mapstructure:"database"`
	SQLite     SQLiteConfig     `mapstructure:"sqlite"`
	NATS       NATSConfig       `mapstructure:"nats"`
	Valkey     ValkeyConfig     `mapstructure:"valkey"`
	Temporal   TemporalConfig   `mapstructure:"temporal"`
	Telemetry  TelemetryConfig  `mapstructure:"telemetry"`
	Log        LogConfig        `mapstructure:"log"`
	Navigation NavigationConfig `mapstructure:"navigation"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	Driver string `mapstructure:"driver"` // "postgres" or "sqlite"
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type NATSConfig struct {
	URL string `mapstructure:"url"`
}

type ValkeyConfig struct {
	Addr   string `mapstructure:"addr"`
	Prefix string `mapstructure:"prefix"`
}

type TemporalConfig struct {
	HostPort  string `mapstructure:"host_port"`
	Namespace string `mapstructure:"namespace"`
	TaskQueue string `mapstructure:"task_queue"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	TempoAddr   string `mapstructure:"tempo_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// NavigationConfig holds guidance defaults. It is the only section
// re-read when the config file changes.
type NavigationConfig struct {
	StrideLengthMeters     float64        `mapstructure:"stride_length_meters"`
	ArrivalThresholdMeters float64        `mapstructure:"arrival_threshold_meters"`
	WalkingSpeedMps        float64        `mapstructure:"walking_speed_mps"`
	Announce               AnnounceConfig `mapstructure:"announce"`
}

type AnnounceConfig struct {
	MinDistanceChangeMeters float64 `mapstructure:"min_distance_change_meters"`
	MinBearingChangeDegrees float64 `mapstructure:"min_bearing_change_degrees"`
}

// Validate checks guidance settings.
func (n NavigationConfig) Validate() []string {
	var errs []string
	if n.StrideLengthMeters <= 0 {
		errs = append(errs, fmt.Sprintf("navigation.stride_length_meters must be positive, got %v", n.StrideLengthMeters))
	}
	if n.ArrivalThresholdMeters < 0 {
		errs = append(errs, fmt.Sprintf("navigation.arrival_threshold_meters must be non-negative, got %v", n.ArrivalThresholdMeters))
	}
	if n.WalkingSpeedMps <= 0 {
		errs = append(errs, "navigation.walking_speed_mps must be positive")
	}
	if n.Announce.MinDistanceChangeMeters < 0 || n.Announce.MinBearingChangeDegrees < 0 {
		errs = append(errs, "navigation.announce thresholds must be non-negative")
	}
	return errs
}

// Load reads configuration from file and environment variables.
func Load(service string) (*Config, error) {
	cfg, _, err := load(service)
	return cfg, err
}

// Watch loads the configuration like Load and calls onChange with the new
// navigation section every time the config file is rewritten. Invalid
// edits are logged and ignored.
func Watch(service string, onChange func(NavigationConfig)) (*Config, error) {
	cfg, v, err := load(service)
	if err != nil {
		return nil, err
	}
	if v.ConfigFileUsed() == "" {
		return cfg, nil
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		var next Config
		if err := v.Unmarshal(&next); err != nil {
			slog.Warn("config reload failed", "file", e.Name, "error", err)
			return
		}
		if errs := next.Navigation.Validate(); len(errs) > 0 {
			slog.Warn("config reload rejected", "file", e.Name, "errors", errs)
			return
		}
		slog.Info("navigation config reloaded", "file", e.Name)
		onChange(next.Navigation)
	})
	v.WatchConfig()

	return cfg, nil
}

func load(service string) (*Config, *viper.Viper, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("storage.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "campusnav")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "campusnav")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("sqlite.path", "campusnav.db")
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("valkey.prefix", "campusnav:")
	v.SetDefault("temporal.host_port", "localhost:7233")
	v.SetDefault("temporal.namespace", "default")
	v.SetDefault("temporal.task_queue", "campusnav-history")
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.tempo_addr", "tempo:4317")
	v.SetDefault("telemetry.enabled", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("navigation.stride_length_meters", 0.7)
	v.SetDefault("navigation.arrival_threshold_meters", 5.0)
	v.SetDefault("navigation.walking_speed_mps", 1.4)
	v.SetDefault("navigation.announce.min_distance_change_meters", 10.0)
	v.SetDefault("navigation.announce.min_bearing_change_degrees", 0.0)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: CAMPUSNAV_DATABASE_HOST → database.host
	v.SetEnvPrefix("CAMPUSNAV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	return &cfg, v, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}

	switch c.Storage.Driver {
	case "postgres":
		if c.Database.Host == "" {
			errs = append(errs, "database.host is required")
		}
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", c.Database.Port))
		}
		if c.Database.User == "" {
			errs = append(errs, "database.user is required")
		}
		if c.Database.DBName == "" {
			errs = append(errs, "database.dbname is required")
		}
	case "sqlite":
		if c.SQLite.Path == "" {
			errs = append(errs, "sqlite.path is required")
		}
	default:
		errs = append(errs, fmt.Sprintf("storage.driver must be postgres or sqlite, got %q", c.Storage.Driver))
	}

	if c.NATS.URL == "" {
		errs = append(errs, "nats.url is required")
	}
	if c.Valkey.Addr == "" {
		errs = append(errs, "valkey.addr is required")
	}
	if c.Temporal.TaskQueue == "" {
		errs = append(errs, "temporal.task_queue is required")
	}
	errs = append(errs, c.Navigation.Validate()...)

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
