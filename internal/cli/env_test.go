package cli

import (
	"bytes"
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/rentdesk/internal/config"
	"github.com/aretw0/rentdesk/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(store, sessions string) config.Config {
	return config.Config{
		Store:    config.StoreConfig{Backend: store, RedisKey: "rentdesk:records"},
		Sessions: config.SessionsConfig{Backend: sessions, TTL: time.Hour, Prefix: "rentdesk:session:"},
		Catalog:  config.CatalogConfig{Profile: "standard"},
		Log:      config.LogConfig{Level: "info"},
	}
}

func newTestEnvironment(t *testing.T, cfg config.Config) *Environment {
	t.Helper()
	env, err := NewEnvironment(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = env.Close() })
	return env
}

func TestNewEnvironment_Backends(t *testing.T) {
	dir := t.TempDir()
	mr := miniredis.RunT(t)

	tests := []struct {
		name string
		cfg  func() config.Config
	}{
		{"memory", func() config.Config { return testConfig(config.BackendMemory, config.BackendMemory) }},
		{"file", func() config.Config {
			cfg := testConfig(config.BackendFile, config.BackendFile)
			cfg.Store.Path = filepath.Join(dir, "rentals.json")
			cfg.Sessions.Dir = filepath.Join(dir, "sessions")
			return cfg
		}},
		{"sqlite", func() config.Config {
			cfg := testConfig(config.BackendSQLite, config.BackendMemory)
			cfg.Store.Path = filepath.Join(dir, "rentals.db")
			return cfg
		}},
		{"redis", func() config.Config {
			cfg := testConfig(config.BackendRedis, config.BackendRedis)
			cfg.Store.RedisAddr = mr.Addr()
			return cfg
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnvironment(t, tt.cfg())
			ctx := context.Background()

			reply, err := env.Desk.Begin(ctx, "chat-"+tt.name)
			require.NoError(t, err)
			require.Len(t, reply.Prompts, 1)

			ids, err := env.Desk.Sessions().List(ctx)
			require.NoError(t, err)
			assert.Contains(t, ids, "chat-"+tt.name)

			n, err := env.Desk.Import(ctx, seed())
			require.NoError(t, err)
			assert.Equal(t, 2, n)
		})
	}
}

func TestNewEnvironment_SharesRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(config.BackendRedis, config.BackendRedis)
	cfg.Store.RedisAddr = mr.Addr()

	env := newTestEnvironment(t, cfg)
	assert.Len(t, env.closers, 1)
	require.NoError(t, env.Close())
	assert.Empty(t, env.closers)
}

func TestNewEnvironment_Errors(t *testing.T) {
	cfg := testConfig("tape", config.BackendMemory)
	_, err := NewEnvironment(context.Background(), cfg, logging.NewNop())
	assert.ErrorContains(t, err, "unknown store backend")

	cfg = testConfig(config.BackendMemory, "tape")
	_, err = NewEnvironment(context.Background(), cfg, logging.NewNop())
	assert.ErrorContains(t, err, "unknown sessions backend")

	cfg = testConfig(config.BackendMemory, config.BackendMemory)
	cfg.Catalog.Profile = "nope"
	_, err = NewEnvironment(context.Background(), cfg, logging.NewNop())
	assert.ErrorContains(t, err, "catalog")
}

func TestNewEnvironment_MetricsObserveDialogue(t *testing.T) {
	env := newTestEnvironment(t, testConfig(config.BackendMemory, config.BackendMemory))
	_, err := env.Desk.Begin(context.Background(), "chat-1")
	require.NoError(t, err)

	families, err := env.Metrics.Registry().Gather()
	require.NoError(t, err)
	var buf bytes.Buffer
	for _, f := range families {
		buf.WriteString(f.GetName())
		buf.WriteString("\n")
	}
	assert.Contains(t, buf.String(), "rentdesk_state_entries_total")
}

func TestNewEnvironment_SealedSessions(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(config.BackendMemory, config.BackendFile)
	cfg.Sessions.Dir = dir
	cfg.Sessions.EncryptionKey = base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{7}, 32))

	env := newTestEnvironment(t, cfg)
	ctx := context.Background()
	_, err := env.Desk.Begin(ctx, "chat-1")
	require.NoError(t, err)
	_, err = env.Desk.OnText(ctx, "chat-1", "15/07/2024")
	require.NoError(t, err)
	_, err = env.Desk.OnText(ctx, "chat-1", "Rossi")
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(dir, "chat-1.json"))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "Rossi")
	assert.Contains(t, string(raw), "sealed")

	sess, err := env.Desk.Sessions().Load(ctx, "chat-1")
	require.NoError(t, err)
	assert.Equal(t, "Rossi", sess.Fields.LastName)

	cfg.Sessions.EncryptionKey = "short"
	_, err = NewEnvironment(ctx, cfg, logging.NewNop())
	assert.ErrorContains(t, err, "sessions.encryption_key")
}
