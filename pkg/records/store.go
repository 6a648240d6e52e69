package records

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/rentdesk/internal/logging"
	"github.com/aretw0/rentdesk/pkg/domain"
	"github.com/aretw0/rentdesk/pkg/ports"
)

// Store is the append-only record sequence shared by every conversation.
type Store struct {
	mu      sync.RWMutex
	backend ports.RecordBackend
	records []domain.RentalRecord
	logger  *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Open loads the persisted sequence from the backend.
func Open(ctx context.Context, backend ports.RecordBackend, opts ...Option) (*Store, error) {
	s := &Store{
		backend: backend,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	records, err := backend.Load(ctx)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "load", Err: err}
	}
	s.records = records
	s.logger.Debug("record store opened", "records", len(records))
	return s, nil
}

// Append adds a record at the end and persists the whole sequence.
// On a failed write the in-memory sequence is left as it was.
func (s *Store) Append(ctx context.Context, rec domain.RentalRecord) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]domain.RentalRecord, len(s.records), len(s.records)+1)
	copy(next, s.records)
	next = append(next, rec)

	if err := s.backend.Save(ctx, next); err != nil {
		s.logger.Error("failed to persist records", "op", "append", "err", err)
		return -1, &domain.PersistenceError{Op: "append", Err: err}
	}
	s.records = next
	return len(next) - 1, nil
}

// Update replaces the record at index through fn and persists the sequence.
// fn receives a copy; returning an error aborts without writing.
func (s *Store) Update(ctx context.Context, index int, fn func(*domain.RentalRecord) error) (domain.RentalRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.records) {
		return domain.RentalRecord{}, fmt.Errorf("index %d: %w", index, domain.ErrRecordNotFound)
	}

	rec := s.records[index]
	if err := fn(&rec); err != nil {
		return domain.RentalRecord{}, err
	}

	next := make([]domain.RentalRecord, len(s.records))
	copy(next, s.records)
	next[index] = rec

	if err := s.backend.Save(ctx, next); err != nil {
		s.logger.Error("failed to persist records", "op", "update", "record_index", index, "err", err)
		return domain.RentalRecord{}, &domain.PersistenceError{Op: "update", Err: err}
	}
	s.records = next
	return rec, nil
}

// AppendAll appends a batch with a single write.
func (s *Store) AppendAll(ctx context.Context, batch []domain.RentalRecord) (int, error) {
	if len(batch) == 0 {
		return 0, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]domain.RentalRecord, 0, len(s.records)+len(batch))
	next = append(next, s.records...)
	next = append(next, batch...)

	if err := s.backend.Save(ctx, next); err != nil {
		s.logger.Error("failed to persist records", "op", "import", "err", err)
		return 0, &domain.PersistenceError{Op: "import", Err: err}
	}
	s.records = next
	return len(batch), nil
}

// All returns a copy of the full sequence in insertion order.
func (s *Store) All() []domain.RentalRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.RentalRecord(nil), s.records...)
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Get returns the record at index.
func (s *Store) Get(index int) (domain.RentalRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if index < 0 || index >= len(s.records) {
		return domain.RentalRecord{}, fmt.Errorf("index %d: %w", index, domain.ErrRecordNotFound)
	}
	return s.records[index], nil
}

// ForDate returns the records whose date equals the given literal string.
func (s *Store) ForDate(date string) []domain.RentalRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.RentalRecord
	for _, r := range s.records {
		if r.Date == date {
			out = append(out, r)
		}
	}
	return out
}

// Search matches the query against every record. See Match.
func (s *Store) Search(query string) []Match {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return search(s.records, query, allFields)
}
