package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/rentdesk/pkg/adapters/memory"
	"github.com/aretw0/rentdesk/pkg/domain"
	"github.com/aretw0/rentdesk/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SlowStore simulates latency to provoke race conditions if locking is missing.
type SlowStore struct {
	*memory.Store
}

func (s SlowStore) Load(ctx context.Context, id string) (*domain.Session, error) {
	time.Sleep(2 * time.Millisecond)
	return s.Store.Load(ctx, id)
}

func (s SlowStore) Save(ctx context.Context, id string, sess *domain.Session) error {
	time.Sleep(2 * time.Millisecond)
	return s.Store.Save(ctx, id, sess)
}

var epoch = time.Date(2024, 7, 15, 9, 0, 0, 0, time.UTC)

func TestManager_UpdateSerializesReadModifyWrite(t *testing.T) {
	manager := session.NewManager(SlowStore{memory.NewStore()})
	ctx := context.Background()
	id := "race-test"
	require.NoError(t, manager.Save(ctx, id, domain.NewSession(id, epoch)))

	const writers = 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := manager.Update(ctx, id, func(s *domain.Session) (*domain.Session, error) {
				s.Persisted = append(s.Persisted, len(s.Persisted))
				return s, nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	sess, err := manager.Load(ctx, id)
	require.NoError(t, err)
	assert.Len(t, sess.Persisted, writers, "no update may be lost")
}

func TestManager_UpdateLifecycle(t *testing.T) {
	store := memory.NewStore()
	manager := session.NewManager(store)
	ctx := context.Background()

	err := manager.Update(ctx, "c1", func(s *domain.Session) (*domain.Session, error) {
		assert.Nil(t, s)
		return domain.NewSession("c1", epoch), nil
	})
	require.NoError(t, err)

	sess, err := manager.Load(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, domain.StateCollectDate, sess.State)

	boom := errors.New("boom")
	err = manager.Update(ctx, "c1", func(s *domain.Session) (*domain.Session, error) {
		require.NotNil(t, s)
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = manager.Load(ctx, "c1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound, "a nil result discards the session")

	ids, err := manager.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestManager_DeleteIsIdempotent(t *testing.T) {
	manager := session.NewManager(memory.NewStore())
	ctx := context.Background()
	require.NoError(t, manager.Save(ctx, "c", domain.NewSession("c", epoch)))
	assert.NoError(t, manager.Delete(ctx, "c"))
	assert.NoError(t, manager.Delete(ctx, "c"))
}

func TestManager_CancelledContext(t *testing.T) {
	manager := session.NewManager(memory.NewStore())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, manager.Save(ctx, "c", domain.NewSession("c", epoch)), context.Canceled)
}
