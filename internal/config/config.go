// Package config provides configuration management for simpleorm tools.
//
// The config file names the store to connect to and how to log; the schema
// itself always comes from the store's catalog.
//
// Config file locations (priority order):
//  1. $SIMPLEORM_CONFIG
//  2. ./simpleorm.yaml
//  3. ~/.config/simpleorm/config.yaml
//  4. /etc/simpleorm/config.yaml
//
// Values from the environment (and .env files loaded with LoadEnv) override
// the file; see ApplyEnv.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultSQLitePath is the database file used when none is configured
	DefaultSQLitePath = "./simpleorm.db"
	// DefaultConnectTimeout bounds the initial ping
	DefaultConnectTimeout = 5 * time.Second
)

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		// No config found - return defaults
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}

// DefaultConfig returns a local SQLite setup
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Database.Dialect == "" {
		c.Database.Dialect = "sqlite"
	}
	c.Database.Dialect = strings.ToLower(c.Database.Dialect)
	if c.Database.ConnectTimeout == 0 {
		c.Database.ConnectTimeout = Duration(DefaultConnectTimeout)
	}

	switch c.Database.Dialect {
	case "sqlite":
		if c.Database.Path == "" && c.Database.DSN == "" {
			c.Database.Path = DefaultSQLitePath
		}
	case "postgres":
		if c.Database.Host == "" {
			c.Database.Host = "localhost"
		}
		if c.Database.Port == 0 {
			c.Database.Port = 5432
		}
		if c.Database.SSLMode == "" {
			c.Database.SSLMode = "disable"
		}
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Log.Output == "" {
		c.Log.Output = "stderr"
	}
}

// DataSource returns the driver connection string
func (d DatabaseConfig) DataSource() string {
	if d.DSN != "" {
		return d.DSN
	}

	switch strings.ToLower(d.Dialect) {
	case "postgres":
		var parts []string
		add := func(key, value string) {
			if value != "" {
				parts = append(parts, key+"="+quoteDSNValue(value))
			}
		}
		add("host", d.Host)
		if d.Port != 0 {
			add("port", strconv.Itoa(d.Port))
		}
		add("dbname", d.Name)
		add("user", d.User)
		add("password", d.Password)
		add("sslmode", d.SSLMode)
		if t := d.ConnectTimeout.Duration(); t > 0 {
			add("connect_timeout", strconv.Itoa(int(t.Seconds())))
		}
		return strings.Join(parts, " ")
	default:
		if d.Path == "" {
			return DefaultSQLitePath
		}
		return d.Path
	}
}

// DatabaseName is the name substituted for the :database token
func (d DatabaseConfig) DatabaseName() string {
	if d.Name != "" {
		return d.Name
	}
	if strings.ToLower(d.Dialect) == "sqlite" {
		return "main"
	}
	return ""
}

// Redacted returns DataSource with the password masked, for logging
func (d DatabaseConfig) Redacted() string {
	if d.DSN == "" {
		masked := d
		if masked.Password != "" {
			masked.Password = "xxxxx"
		}
		return masked.DataSource()
	}

	if u, err := url.Parse(d.DSN); err == nil && u.User != nil {
		if _, ok := u.User.Password(); ok {
			u.User = url.UserPassword(u.User.Username(), "xxxxx")
			return u.String()
		}
	}
	return d.DSN
}

// quoteDSNValue quotes a keyword/value DSN value when it holds spaces or quotes
func quoteDSNValue(v string) string {
	if !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	summary := fmt.Sprintf("Dialect: %s, Source: %s\n", c.Database.Dialect, c.Database.Redacted())
	summary += fmt.Sprintf("Schema cache: %v, Log: %s/%s -> %s",
		c.Schema.Cache, c.Log.Level, c.Log.Format, c.Log.Output)
	return summary
}
