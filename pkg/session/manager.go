package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"log/slog"

	"github.com/aretw0/rentdesk/internal/logging"
	"github.com/aretw0/rentdesk/pkg/domain"
	"github.com/aretw0/rentdesk/pkg/ports"
)

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager serializes access to each conversation's session.
// Conversations never share a lock; unused locks are dropped by reference counting.
type Manager struct {
	store ports.SessionStore

	mu    sync.Mutex            // guards locks
	locks map[string]*lockEntry // active locks by conversation id

	logger *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a Session Manager over a session store.
func NewManager(store ports.SessionStore, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		locks:  make(map[string]*lockEntry),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(id) after unlocking.
func (m *Manager) acquire(id string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[id]
	if !exists {
		entry = &lockEntry{}
		m.locks[id] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[id]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, id)
	}
}

// Load retrieves the session of a conversation.
func (m *Manager) Load(ctx context.Context, conversationID string) (*domain.Session, error) {
	var sess *domain.Session
	err := m.WithLock(ctx, conversationID, func(ctx context.Context) error {
		var err error
		sess, err = m.store.Load(ctx, conversationID)
		return err
	})
	return sess, err
}

// Save persists the session.
func (m *Manager) Save(ctx context.Context, conversationID string, sess *domain.Session) error {
	return m.WithLock(ctx, conversationID, func(ctx context.Context) error {
		return m.store.Save(ctx, conversationID, sess)
	})
}

// Delete discards the session. Deleting twice is a no-op.
func (m *Manager) Delete(ctx context.Context, conversationID string) error {
	return m.WithLock(ctx, conversationID, func(ctx context.Context) error {
		return m.store.Delete(ctx, conversationID)
	})
}

// Update runs a read-modify-write cycle on one session under its lock.
// fn receives nil when no session exists. A nil result deletes the session,
// anything else is saved. An error from fn is returned after the store
// change it requested, if any, has been applied.
func (m *Manager) Update(ctx context.Context, conversationID string, fn func(*domain.Session) (*domain.Session, error)) error {
	return m.WithLock(ctx, conversationID, func(ctx context.Context) error {
		current, err := m.store.Load(ctx, conversationID)
		if err != nil {
			if !errors.Is(err, domain.ErrSessionNotFound) {
				return fmt.Errorf("failed to load session: %w", err)
			}
			current = nil
		}

		next, fnErr := fn(current)
		switch {
		case next != nil:
			if err := m.store.Save(ctx, conversationID, next); err != nil {
				return fmt.Errorf("failed to save session: %w", err)
			}
		case current != nil:
			if err := m.store.Delete(ctx, conversationID); err != nil {
				m.logger.Warn("failed to discard session", "conversation_id", conversationID, "err", err)
			}
		}
		return fnErr
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying session store.
func (m *Manager) Store() ports.SessionStore {
	return m.store
}

// WithLock executes a function while holding the lock for the conversation.
func (m *Manager) WithLock(ctx context.Context, conversationID string, fn func(context.Context) error) error {
	entry := m.acquire(conversationID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(conversationID)
	}()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}
