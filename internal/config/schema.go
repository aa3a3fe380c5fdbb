package config

import (
	"time"
)

// Config is the root configuration structure
type Config struct {
	Version  int            `yaml:"version"`
	Database DatabaseConfig `yaml:"database"`
	Schema   SchemaConfig   `yaml:"schema"`
	Log      LogConfig      `yaml:"log"`
}

// DatabaseConfig holds connection settings. DSN, when set, is passed to the
// driver untouched; otherwise one is built from the remaining fields.
type DatabaseConfig struct {
	Dialect        string   `yaml:"dialect"`          // sqlite, postgres
	Driver         string   `yaml:"driver,omitempty"` // empty = dialect default
	Path           string   `yaml:"path,omitempty"`   // sqlite only
	Host           string   `yaml:"host,omitempty"`
	Port           int      `yaml:"port,omitempty"`
	Name           string   `yaml:"name,omitempty"`
	User           string   `yaml:"user,omitempty"`
	Password       string   `yaml:"password,omitempty"`
	SSLMode        string   `yaml:"sslmode,omitempty"`
	DSN            string   `yaml:"dsn,omitempty"`
	ConnectTimeout Duration `yaml:"connect_timeout,omitempty"`
	// Default installs the opened engine as the process default
	Default bool `yaml:"default"`
}

// SchemaConfig controls column catalog lookups
type SchemaConfig struct {
	Cache bool `yaml:"cache"`
}

// LogConfig selects the log level, encoding and destination
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
	Output string `yaml:"output"` // stdout, stderr or a file path
}

// Duration wraps time.Duration for YAML unmarshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
