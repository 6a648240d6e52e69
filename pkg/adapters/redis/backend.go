package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aretw0/rentdesk/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultRecordsKey holds the record sequence.
const DefaultRecordsKey = "rentdesk:records"

// Backend implements ports.RecordBackend with one Redis string key holding
// the JSON array. SET replaces the value atomically.
type Backend struct {
	client *backend.Client
	key    string
}

// NewBackend creates a record backend over client.
func NewBackend(client *backend.Client, key string) *Backend {
	if key == "" {
		key = DefaultRecordsKey
	}
	return &Backend{client: client, key: key}
}

// Load reads the sequence. A missing key is an empty sequence.
func (b *Backend) Load(ctx context.Context) ([]domain.RentalRecord, error) {
	val, err := b.client.Get(ctx, b.key).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return []domain.RentalRecord{}, nil
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}

	var records []domain.RentalRecord
	if err := json.Unmarshal(val, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal records: %w", err)
	}
	if records == nil {
		records = []domain.RentalRecord{}
	}
	return records, nil
}

// Save replaces the sequence.
func (b *Backend) Save(ctx context.Context, records []domain.RentalRecord) error {
	if records == nil {
		records = []domain.RentalRecord{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}
	if err := b.client.Set(ctx, b.key, data, 0).Err(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	return nil
}
