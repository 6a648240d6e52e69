// Package config provides layered configuration loading for rentdesk.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/aretw0/rentdesk/internal/logging"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "RENTDESK_"

const maxConfigFileSize = 1024 * 1024

// Config is the full application configuration.
type Config struct {
	Store    StoreConfig    `koanf:"store"`
	Sessions SessionsConfig `koanf:"sessions"`
	Catalog  CatalogConfig  `koanf:"catalog"`
	Server   ServerConfig   `koanf:"server"`
	Log      LogConfig      `koanf:"log"`
}

// StoreConfig selects the record backend.
type StoreConfig struct {
	Backend       string `koanf:"backend"`
	Path          string `koanf:"path"`
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`
	RedisKey      string `koanf:"redis_key"`
}

// SessionsConfig selects where in-flight dialogues live.
type SessionsConfig struct {
	Backend string        `koanf:"backend"`
	Dir     string        `koanf:"dir"`
	TTL     time.Duration `koanf:"ttl"`
	Prefix  string        `koanf:"prefix"`

	// EncryptionKey (base64, 32 bytes) seals sessions at rest when set.
	// PreviousKeys still decrypt sessions written before a rotation.
	EncryptionKey string   `koanf:"encryption_key"`
	PreviousKeys  []string `koanf:"previous_keys"`
}

// CatalogConfig selects the enumeration profile.
type CatalogConfig struct {
	Profile string `koanf:"profile"`
	File    string `koanf:"file"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Addr string `koanf:"addr"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level string `koanf:"level"`
}

// Store backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// Load reads the YAML file at path (skipped when path is empty), then
// applies RENTDESK_ environment overrides and defaults, and validates.
//
// Environment variables map to keys by splitting on the first underscore
// after the prefix:
//
//	RENTDESK_STORE_BACKEND    -> store.backend
//	RENTDESK_STORE_REDIS_ADDR -> store.redis_addr
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		content, err := readFile(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func readFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return content, nil
}

func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	section, field, ok := strings.Cut(lower, "_")
	if !ok {
		return lower
	}
	return section + "." + field
}

func applyDefaults(cfg *Config) {
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = BackendFile
	}
	if cfg.Store.Path == "" {
		switch cfg.Store.Backend {
		case BackendFile:
			cfg.Store.Path = "rentals.json"
		case BackendSQLite:
			cfg.Store.Path = "rentals.db"
		}
	}
	if cfg.Store.RedisAddr == "" {
		cfg.Store.RedisAddr = "localhost:6379"
	}
	if cfg.Store.RedisKey == "" {
		cfg.Store.RedisKey = "rentdesk:records"
	}

	if cfg.Sessions.Backend == "" {
		cfg.Sessions.Backend = BackendMemory
	}
	if cfg.Sessions.Dir == "" {
		cfg.Sessions.Dir = ".rentdesk/sessions"
	}
	if cfg.Sessions.TTL == 0 {
		cfg.Sessions.TTL = 24 * time.Hour
	}
	if cfg.Sessions.Prefix == "" {
		cfg.Sessions.Prefix = "rentdesk:session:"
	}

	if cfg.Catalog.Profile == "" {
		cfg.Catalog.Profile = "standard"
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// Validate checks the configuration for inconsistent values.
func (c *Config) Validate() error {
	var errs []error
	switch c.Store.Backend {
	case BackendMemory, BackendFile, BackendRedis, BackendSQLite:
	default:
		errs = append(errs, fmt.Errorf("store.backend must be one of memory, file, redis, sqlite; got %q", c.Store.Backend))
	}
	switch c.Sessions.Backend {
	case BackendMemory, BackendFile, BackendRedis:
	default:
		errs = append(errs, fmt.Errorf("sessions.backend must be one of memory, file, redis; got %q", c.Sessions.Backend))
	}
	if c.Store.RedisDB < 0 {
		errs = append(errs, errors.New("store.redis_db must not be negative"))
	}
	if c.Sessions.TTL < 0 {
		errs = append(errs, errors.New("sessions.ttl must not be negative"))
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// SlogLevel parses the configured level name.
func (c LogConfig) SlogLevel() (slog.Level, error) {
	level, err := logging.ParseLevel(c.Level)
	if err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}
