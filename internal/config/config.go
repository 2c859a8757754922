// Package config handles loading spoonful.toml configuration files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config represents the spoonful.toml configuration file.
type Config struct {
	Server Server `toml:"server"`
	Store  Store  `toml:"store"`
}

// Server contains web server configuration.
type Server struct {
	// Addr is the listen address for the web dashboard.
	Addr string `toml:"addr"`
}

// Store contains persistence configuration.
type Store struct {
	// Path is the SQLite database file location.
	Path string `toml:"path"`
}

// Defaults used when neither config file defines a value.
const (
	DefaultAddr = "127.0.0.1:8324"
)

// DefaultStorePath returns the default database location under the user's
// home directory.
func DefaultStorePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "spoonful", "spoonful.db"), nil
}

// Load loads configuration from the working directory and the global config
// file, with working-directory values winning. Missing files contribute
// nothing; absent values fall back to defaults.
func Load(dir string) (*Config, error) {
	globalPath, err := globalConfigPath()
	if err != nil {
		return nil, err
	}

	globalCfg, _, err := loadConfigFile(globalPath)
	if err != nil {
		return nil, err
	}

	localCfg, localMeta, err := loadConfigFile(filepath.Join(dir, "spoonful.toml"))
	if err != nil {
		return nil, err
	}

	merged := &Config{}
	merged.Server.Addr = mergeString(localMeta.IsDefined("server", "addr"), localCfg.Server.Addr, globalCfg.Server.Addr)
	merged.Store.Path = mergeString(localMeta.IsDefined("store", "path"), localCfg.Store.Path, globalCfg.Store.Path)

	if merged.Server.Addr == "" {
		merged.Server.Addr = DefaultAddr
	}
	if merged.Store.Path == "" {
		merged.Store.Path, err = DefaultStorePath()
		if err != nil {
			return nil, err
		}
	}

	return merged, nil
}

func globalConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "spoonful", "config.toml"), nil
}

func loadConfigFile(path string) (*Config, toml.MetaData, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, toml.MetaData{}, nil
	}
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("read config file %s: %w", path, err)
	}

	var cfg Config
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("parse config file %s: %w", path, err)
	}

	return &cfg, meta, nil
}

func mergeString(localDefined bool, localValue, globalValue string) string {
	value := globalValue
	if localDefined {
		value = localValue
	}
	return strings.TrimSpace(value)
}
