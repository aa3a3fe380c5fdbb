package config

import (
	"os"
	"path/filepath"
)

const (
	// EnvConfigPath names an explicit config file
	EnvConfigPath = "SIMPLEORM_CONFIG"
	// ConfigFileName is looked up in the working directory
	ConfigFileName = "simpleorm.yaml"
	// ConfigDirName is the per-user and system-wide directory name
	ConfigDirName = "simpleorm"
)

// searchPaths lists config candidates from highest to lowest priority
func searchPaths() []string {
	var paths []string
	if p := os.Getenv(EnvConfigPath); p != "" {
		paths = append(paths, p)
	}
	paths = append(paths, ConfigFileName)
	paths = append(paths, userConfigPaths()...)
	return append(paths, filepath.Join("/etc", ConfigDirName, "config.yaml"))
}

// userConfigPaths returns $XDG_CONFIG_HOME/simpleorm/config.yaml and
// ~/.config/simpleorm/config.yaml, in that order, for whichever is defined
func userConfigPaths() []string {
	var paths []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, ConfigDirName, "config.yaml"))
	}
	if home := os.Getenv("HOME"); home != "" {
		paths = append(paths, filepath.Join(home, ".config", ConfigDirName, "config.yaml"))
	}
	return paths
}

// FindConfigPath returns the first existing file among $SIMPLEORM_CONFIG,
// ./simpleorm.yaml, the user config directories and /etc/simpleorm, or ""
// when there is none. A file in the working directory is returned absolute.
func FindConfigPath() string {
	for _, p := range searchPaths() {
		if !fileExists(p) {
			continue
		}
		if p == ConfigFileName {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
		}
		return p
	}
	return ""
}

// DefaultConfigPath is where `ormdemo config init` writes a new file: the
// first user config directory, or ./simpleorm.yaml without one
func DefaultConfigPath() string {
	if paths := userConfigPaths(); len(paths) > 0 {
		return paths[0]
	}
	return ConfigFileName
}

// EnsureConfigDir creates the directory holding configPath
func EnsureConfigDir(configPath string) error {
	return os.MkdirAll(filepath.Dir(configPath), 0o750)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
