// Package cli holds the wiring and command bodies of the rentdesk binary.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/rentdesk"
	"github.com/aretw0/rentdesk/internal/config"
	"github.com/aretw0/rentdesk/pkg/adapters/file"
	httpadapter "github.com/aretw0/rentdesk/pkg/adapters/http"
	"github.com/aretw0/rentdesk/pkg/adapters/memory"
	"github.com/aretw0/rentdesk/pkg/adapters/redis"
	"github.com/aretw0/rentdesk/pkg/adapters/sqlite"
	"github.com/aretw0/rentdesk/pkg/catalog"
	"github.com/aretw0/rentdesk/pkg/observability"
	"github.com/aretw0/rentdesk/pkg/persistence/middleware"
	"github.com/aretw0/rentdesk/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// Environment is a Desk wired from configuration, plus the pieces the
// commands need around it.
type Environment struct {
	Config  config.Config
	Desk    *rentdesk.Desk
	Metrics *observability.Metrics
	Streams *httpadapter.StreamManager
	Logger  *slog.Logger

	redisClient *backend.Client
	closers     []func() error
}

// NewEnvironment opens the configured backends and builds the Desk.
func NewEnvironment(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Environment, error) {
	env := &Environment{
		Config:  cfg,
		Metrics: observability.NewMetrics(),
		Streams: httpadapter.NewStreamManager(logger),
		Logger:  logger,
	}

	cat, err := catalog.Resolve(cfg.Catalog.Profile, cfg.Catalog.File)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve catalog: %w", err)
	}

	records, err := env.recordBackend(cfg.Store)
	if err != nil {
		env.Close()
		return nil, err
	}
	sessions, err := env.sessionStore(cfg.Sessions, cfg.Store)
	if err != nil {
		env.Close()
		return nil, err
	}
	if cfg.Sessions.EncryptionKey != "" {
		mw, err := encryption(cfg.Sessions)
		if err != nil {
			env.Close()
			return nil, err
		}
		sessions = middleware.Chain(sessions, mw)
	}

	desk, err := rentdesk.New(ctx,
		rentdesk.WithCatalog(cat),
		rentdesk.WithRecordBackend(records),
		rentdesk.WithSessionStore(sessions),
		rentdesk.WithEmitter(env.Streams.Emitter()),
		rentdesk.WithLifecycleHooks(observability.Chain(env.Metrics.Hooks(), observability.LogHooks(logger))),
		rentdesk.WithLogger(logger),
	)
	if err != nil {
		env.Close()
		return nil, fmt.Errorf("failed to initialize desk: %w", err)
	}
	env.Desk = desk

	logger.Debug("desk ready",
		"store", cfg.Store.Backend,
		"sessions", cfg.Sessions.Backend,
		"catalog", cat.Profile,
		"records", desk.Store().Len(),
	)
	return env, nil
}

// Close releases every backend connection.
func (e *Environment) Close() error {
	var errs []error
	for i := len(e.closers) - 1; i >= 0; i-- {
		errs = append(errs, e.closers[i]())
	}
	e.closers = nil
	return errors.Join(errs...)
}

func (e *Environment) recordBackend(cfg config.StoreConfig) (ports.RecordBackend, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return memory.NewBackend(), nil
	case config.BackendFile:
		return file.NewBackend(cfg.Path), nil
	case config.BackendRedis:
		return redis.NewBackend(e.redis(cfg), cfg.RedisKey), nil
	case config.BackendSQLite:
		b, err := sqlite.Open(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		e.closers = append(e.closers, b.Close)
		return b, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

func (e *Environment) sessionStore(cfg config.SessionsConfig, store config.StoreConfig) (ports.SessionStore, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return memory.NewStore(), nil
	case config.BackendFile:
		return file.NewStore(cfg.Dir), nil
	case config.BackendRedis:
		return redis.NewFromClient(e.redis(store),
			redis.WithTTL(cfg.TTL),
			redis.WithPrefix(cfg.Prefix),
		), nil
	default:
		return nil, fmt.Errorf("unknown sessions backend %q", cfg.Backend)
	}
}

// redis returns the client shared by the record backend and the session store.
func (e *Environment) redis(cfg config.StoreConfig) *backend.Client {
	if e.redisClient == nil {
		e.redisClient = redis.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		e.closers = append(e.closers, e.redisClient.Close)
	}
	return e.redisClient
}

func encryption(cfg config.SessionsConfig) (middleware.Middleware, error) {
	active, err := middleware.ParseKey(cfg.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("sessions.encryption_key: %w", err)
	}
	conf := middleware.EncryptionConfig{ActiveKey: active}
	for i, encoded := range cfg.PreviousKeys {
		key, err := middleware.ParseKey(encoded)
		if err != nil {
			return nil, fmt.Errorf("sessions.previous_keys[%d]: %w", i, err)
		}
		conf.FallbackKeys = append(conf.FallbackKeys, key)
	}
	return middleware.NewEncryptionMiddleware(conf)
}
