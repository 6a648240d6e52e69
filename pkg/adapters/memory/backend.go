package memory

import (
	"context"
	"sync"

	"github.com/aretw0/rentdesk/pkg/domain"
)

// Backend implements ports.RecordBackend in memory.
type Backend struct {
	mu      sync.Mutex
	records []domain.RentalRecord
	saves   int
	failErr error
}

// NewBackend creates a backend holding an initial sequence.
func NewBackend(initial ...domain.RentalRecord) *Backend {
	return &Backend{records: append([]domain.RentalRecord(nil), initial...)}
}

// Load returns a copy of the sequence.
func (b *Backend) Load(ctx context.Context) ([]domain.RentalRecord, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.RentalRecord(nil), b.records...), nil
}

// Save replaces the sequence, or fails with the error set by FailWith.
func (b *Backend) Save(ctx context.Context, records []domain.RentalRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failErr != nil {
		return b.failErr
	}
	b.records = append([]domain.RentalRecord(nil), records...)
	b.saves++
	return nil
}

// FailWith makes every later Save return err. A nil err restores normal behavior.
func (b *Backend) FailWith(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failErr = err
}

// Saves returns the number of successful writes.
func (b *Backend) Saves() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.saves
}
