package runner

import (
	"context"

	"github.com/aretw0/rentdesk/pkg/domain"
)

// IOHandler defines the strategy for interacting with the operator.
// This allows switching between Text (terminal) and JSON (structured) modes.
type IOHandler interface {
	// Output presents the prompts of one reply.
	Output(ctx context.Context, prompts []domain.Prompt) error

	// Input reads the next line from the operator.
	// It returns io.EOF when the input is exhausted.
	Input(ctx context.Context) (string, error)

	// SystemOutput presents a meta-message (hints, errors) distinct from prompts.
	SystemOutput(ctx context.Context, msg string) error
}
