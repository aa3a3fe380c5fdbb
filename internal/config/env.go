package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables that override DatabaseConfig
const (
	EnvDialect        = "SIMPLEORM_DB_DIALECT"
	EnvDriver         = "SIMPLEORM_DB_DRIVER"
	EnvDSN            = "SIMPLEORM_DB_DSN"
	EnvPath           = "SIMPLEORM_DB_PATH"
	EnvHost           = "SIMPLEORM_DB_HOST"
	EnvPort           = "SIMPLEORM_DB_PORT"
	EnvName           = "SIMPLEORM_DB_NAME"
	EnvUser           = "SIMPLEORM_DB_USER"
	EnvPassword       = "SIMPLEORM_DB_PASSWORD"
	EnvSSLMode        = "SIMPLEORM_DB_SSLMODE"
	EnvConnectTimeout = "SIMPLEORM_DB_CONNECT_TIMEOUT"
	EnvLogLevel       = "SIMPLEORM_LOG_LEVEL"
)

// LoadEnv reads .env files into the process environment without replacing
// variables that are already set. With no paths it reads ./.env; missing
// files are skipped.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load env file %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overrides config values with SIMPLEORM_* environment variables
func (c *Config) ApplyEnv() error {
	db := &c.Database

	setString(&db.Dialect, EnvDialect)
	setString(&db.Driver, EnvDriver)
	setString(&db.DSN, EnvDSN)
	setString(&db.Path, EnvPath)
	setString(&db.Host, EnvHost)
	setString(&db.Name, EnvName)
	setString(&db.User, EnvUser)
	setString(&db.Password, EnvPassword)
	setString(&db.SSLMode, EnvSSLMode)
	setString(&c.Log.Level, EnvLogLevel)

	if v := os.Getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse %s: %w", EnvPort, err)
		}
		db.Port = port
	}

	if v := os.Getenv(EnvConnectTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse %s: %w", EnvConnectTimeout, err)
		}
		db.ConnectTimeout = Duration(d)
	}

	c.applyDefaults()
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Overrides are command-line values that take precedence over the file and
// the environment. Empty fields leave the config untouched.
type Overrides struct {
	Dialect  string
	DSN      string
	Path     string
	LogLevel string
}

// Override applies o and refills defaults for a changed dialect
func (c *Config) Override(o Overrides) {
	if o.Dialect != "" && !strings.EqualFold(o.Dialect, c.Database.Dialect) {
		c.Database.Dialect = o.Dialect
		if !strings.EqualFold(o.Dialect, "sqlite") {
			c.Database.Path = ""
		}
	}
	if o.DSN != "" {
		c.Database.DSN = o.DSN
	}
	if o.Path != "" {
		c.Database.Path = o.Path
	}
	if o.LogLevel != "" {
		c.Log.Level = o.LogLevel
	}
	c.applyDefaults()
}
