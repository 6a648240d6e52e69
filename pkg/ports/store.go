package ports

import (
	"context"

	"github.com/aretw0/rentdesk/pkg/domain"
)

// SessionStore persists in-flight dialogue sessions keyed by conversation id.
type SessionStore interface {
	// Save persists the session for a conversation.
	Save(ctx context.Context, conversationID string, sess *domain.Session) error

	// Load retrieves the session for a conversation.
	// Returns domain.ErrSessionNotFound if there is none.
	Load(ctx context.Context, conversationID string) (*domain.Session, error)

	// Delete removes the session. Deleting a missing session is not an error.
	Delete(ctx context.Context, conversationID string) error

	// List returns the conversation ids with a stored session.
	List(ctx context.Context) ([]string, error)
}

// RecordBackend is the durable form of the record sequence.
// Save always receives the entire sequence and must replace the previous one
// atomically: a reader never observes a partially written sequence.
type RecordBackend interface {
	// Load returns the persisted sequence in insertion order. An empty backend
	// returns an empty sequence and no error.
	Load(ctx context.Context) ([]domain.RentalRecord, error)

	// Save overwrites the persisted sequence.
	Save(ctx context.Context, records []domain.RentalRecord) error
}
