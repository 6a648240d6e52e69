package ports

import (
	"context"

	"github.com/aretw0/rentdesk/pkg/domain"
)

// Emitter delivers prompts to the operator of a conversation.
// The host implements it; the desk calls it for every prompt it produces.
type Emitter interface {
	Emit(ctx context.Context, conversationID string, prompt domain.Prompt) error
}

// EmitterFunc adapts a function to the Emitter interface.
type EmitterFunc func(ctx context.Context, conversationID string, prompt domain.Prompt) error

// Emit calls f.
func (f EmitterFunc) Emit(ctx context.Context, conversationID string, prompt domain.Prompt) error {
	return f(ctx, conversationID, prompt)
}
