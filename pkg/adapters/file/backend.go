// Package file provides filesystem adapters: a JSON record backend and a
// directory-per-conversation session store. Every write is atomic.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aretw0/rentdesk/pkg/domain"
)

// DefaultRecordsPath is used when no path is configured.
const DefaultRecordsPath = "rentals.json"

// Backend implements ports.RecordBackend as a single JSON array file.
type Backend struct {
	Path string
}

// NewBackend creates a backend for path, defaulting to DefaultRecordsPath.
func NewBackend(path string) *Backend {
	if path == "" {
		path = DefaultRecordsPath
	}
	return &Backend{Path: path}
}

// Load reads the sequence. A missing or empty file is an empty sequence.
func (b *Backend) Load(ctx context.Context) ([]domain.RentalRecord, error) {
	data, err := os.ReadFile(b.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.RentalRecord{}, nil
		}
		return nil, fmt.Errorf("failed to read records file: %w", err)
	}
	if len(data) == 0 {
		return []domain.RentalRecord{}, nil
	}

	var records []domain.RentalRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal records: %w", err)
	}
	if records == nil {
		records = []domain.RentalRecord{}
	}
	return records, nil
}

// Save rewrites the whole file atomically.
func (b *Backend) Save(ctx context.Context, records []domain.RentalRecord) error {
	if records == nil {
		records = []domain.RentalRecord{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}
	if err := writeAtomic(b.Path, data); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	return nil
}
