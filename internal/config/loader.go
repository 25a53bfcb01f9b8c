package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/example/course-scheduler/internal/logging"
)

const (
	envPrefix = "SCHEDULER"
	dateFmt   = "2006-01-02"
)

// Config captures the settings of the scheduler service and CLI.
type Config struct {
	HTTP    HTTPConfig    `mapstructure:"http"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	SQLite  SQLiteConfig  `mapstructure:"sqlite"`
	Log     LogConfig     `mapstructure:"log"`
	Term    TermConfig    `mapstructure:"term"`
}

// HTTPConfig configures the API listener.
type HTTPConfig struct {
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// CatalogConfig locates the course catalog.
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// SQLiteConfig configures snapshot storage.
type SQLiteConfig struct {
	DSN         string        `mapstructure:"dsn"`
	BusyTimeout time.Duration `mapstructure:"busy_timeout"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TermConfig bounds calendar exports.
type TermConfig struct {
	Start string `mapstructure:"start"`
	Weeks int    `mapstructure:"weeks"`
}

// StartDate parses Start as a YYYY-MM-DD date.
func (t TermConfig) StartDate() (time.Time, error) {
	return time.Parse(dateFmt, strings.TrimSpace(t.Start))
}

// Load reads configuration with the precedence environment > file > defaults.
//
// When path is empty an optional scheduler.{yaml,json,toml} in the working
// directory is used; an explicit path must exist. Environment variables use the
// SCHEDULER_ prefix with dots replaced by underscores, for example
// SCHEDULER_CATALOG_PATH. Missing and invalid values are reported together.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("http.port", 8080)
	v.SetDefault("http.shutdown_timeout", "10s")
	v.SetDefault("catalog.path", "")
	v.SetDefault("sqlite.dsn", "scheduler.db")
	v.SetDefault("sqlite.busy_timeout", "5s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("term.start", "2026-08-17")
	v.SetDefault("term.weeks", 16)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("scheduler")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: read %s: %w", configName(path), err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func configName(path string) string {
	if path == "" {
		return "scheduler config"
	}
	return path
}

// Validate reports every missing and invalid key.
func (c Config) Validate() error {
	var missing, invalid []string

	if strings.TrimSpace(c.Catalog.Path) == "" {
		missing = append(missing, envName("catalog.path"))
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		invalid = append(invalid, envName("http.port"))
	}
	if c.HTTP.ShutdownTimeout < 0 {
		invalid = append(invalid, envName("http.shutdown_timeout"))
	}
	if strings.TrimSpace(c.SQLite.DSN) == "" {
		invalid = append(invalid, envName("sqlite.dsn"))
	}
	if c.SQLite.BusyTimeout < 0 {
		invalid = append(invalid, envName("sqlite.busy_timeout"))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		invalid = append(invalid, envName("log.level"))
	}
	if f := strings.ToLower(c.Log.Format); f != "json" && f != "text" {
		invalid = append(invalid, envName("log.format"))
	}
	if _, err := c.Term.StartDate(); err != nil {
		invalid = append(invalid, envName("term.start"))
	}
	if c.Term.Weeks <= 0 {
		invalid = append(invalid, envName("term.weeks"))
	}

	var msgs []string
	if len(missing) > 0 {
		msgs = append(msgs, "missing required settings: "+strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		msgs = append(msgs, "invalid settings: "+strings.Join(invalid, ", "))
	}
	if len(msgs) > 0 {
		return errors.New(strings.Join(msgs, "; "))
	}
	return nil
}

func envName(key string) string {
	return envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}
