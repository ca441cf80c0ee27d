// Package config provides centralized configuration management using Viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration values for polaron.
type Config struct {
	LogLevel            string        `mapstructure:"log_level" yaml:"log_level"`
	LogFile             string        `mapstructure:"log_file" yaml:"log_file"`
	QuoteDelay          time.Duration `mapstructure:"quote_delay" yaml:"quote_delay"`
	BookingDelay        time.Duration `mapstructure:"booking_delay" yaml:"booking_delay"`
	ContactDelay        time.Duration `mapstructure:"contact_delay" yaml:"contact_delay"`
	RouteSeededFallback bool          `mapstructure:"route_seeded_fallback" yaml:"route_seeded_fallback"`
	Events              bool          `mapstructure:"events" yaml:"events"`
	NATSURL             string        `mapstructure:"nats_url" yaml:"nats_url"`
	HTTPAddr            string        `mapstructure:"http_addr" yaml:"http_addr"`
	MCPAddr             string        `mapstructure:"mcp_addr" yaml:"mcp_addr"`
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		LogLevel:     "info",
		QuoteDelay:   1500 * time.Millisecond,
		BookingDelay: 2000 * time.Millisecond,
		ContactDelay: 3000 * time.Millisecond,
		Events:       true,
		HTTPAddr:     "127.0.0.1:8080",
		MCPAddr:      "127.0.0.1:0",
	}
}

var envKeys = []string{
	"log_level",
	"log_file",
	"quote_delay",
	"booking_delay",
	"contact_delay",
	"route_seeded_fallback",
	"events",
	"nats_url",
	"http_addr",
	"mcp_addr",
}

// Load loads configuration with full precedence:
// CLI flags > ENV vars > project config > XDG global config > defaults
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName("polaron")

	d := Defaults()
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_file", d.LogFile)
	v.SetDefault("quote_delay", d.QuoteDelay)
	v.SetDefault("booking_delay", d.BookingDelay)
	v.SetDefault("contact_delay", d.ContactDelay)
	v.SetDefault("route_seeded_fallback", d.RouteSeededFallback)
	v.SetDefault("events", d.Events)
	v.SetDefault("nats_url", d.NATSURL)
	v.SetDefault("http_addr", d.HTTPAddr)
	v.SetDefault("mcp_addr", d.MCPAddr)

	// Setup ENV binding with POLARON_ prefix
	v.SetEnvPrefix("POLARON")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Explicit bindings so Unmarshal sees env-only keys
	for _, key := range envKeys {
		if err := v.BindEnv(key, "POLARON_"+strings.ToUpper(key)); err != nil {
			return nil, fmt.Errorf("binding %s env: %w", key, err)
		}
	}

	// Load global config first (if exists)
	globalPath := GlobalPath()
	if fileExists(globalPath) {
		v.SetConfigFile(globalPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading global config: %w", err)
		}
	}

	// Merge project config on top (if exists)
	projectPath := ProjectPath()
	if fileExists(projectPath) {
		v.SetConfigFile(projectPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the loaded values are usable.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	delays := []struct {
		key string
		d   time.Duration
	}{
		{"quote_delay", c.QuoteDelay},
		{"booking_delay", c.BookingDelay},
		{"contact_delay", c.ContactDelay},
	}
	for _, d := range delays {
		if d.d < 0 {
			return fmt.Errorf("%s must not be negative, got %s", d.key, d.d)
		}
	}
	return nil
}

// Exists returns true if any config file exists (global or project).
func Exists() bool {
	return fileExists(GlobalPath()) || fileExists(ProjectPath())
}

// GlobalPath returns the XDG global config path.
// Returns ~/.config/polaron/polaron.yml or $XDG_CONFIG_HOME/polaron/polaron.yml.
func GlobalPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "polaron", "polaron.yml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "polaron", "polaron.yml")
}

// ProjectPath returns the project-local config path.
func ProjectPath() string {
	return "polaron.yml"
}

// WriteGlobal writes the config to the XDG global location.
func WriteGlobal(cfg *Config) error {
	path := GlobalPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return write(path, cfg)
}

// WriteProject writes the config to the project-local location.
func WriteProject(cfg *Config) error {
	return write(ProjectPath(), cfg)
}

// Marshal renders cfg as the YAML written by WriteGlobal and WriteProject.
func Marshal(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return data, nil
}

func write(path string, cfg *Config) error {
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// fileExists checks if a file exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
