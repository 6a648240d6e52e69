package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/rentdesk/pkg/domain"
)

// LogHooks returns hooks that write every lifecycle event to the logger.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStateEnter: func(ctx context.Context, e *domain.StateEvent) {
			logger.DebugContext(ctx, "state_enter", "conversation_id", e.ConversationID, "state", e.State)
		},
		OnInputRejected: func(ctx context.Context, e *domain.StateEvent) {
			logger.DebugContext(ctx, "input_rejected", "conversation_id", e.ConversationID, "state", e.State, "reason", e.Reason)
		},
		OnRecordPersisted: func(ctx context.Context, e *domain.RecordEvent) {
			logger.InfoContext(ctx, "record_persisted", "conversation_id", e.ConversationID, "record_index", e.Index, "kind", e.Record.RentalKind)
		},
		OnPersistFailed: func(ctx context.Context, e *domain.RecordEvent) {
			logger.ErrorContext(ctx, "persist_failed", "conversation_id", e.ConversationID, "err", e.Err)
		},
		OnCancelled: func(ctx context.Context, e *domain.StateEvent) {
			logger.InfoContext(ctx, "cancelled", "conversation_id", e.ConversationID, "state", e.State)
		},
		OnFinished: func(ctx context.Context, e *domain.StateEvent) {
			logger.InfoContext(ctx, "finished", "conversation_id", e.ConversationID)
		},
	}
}

// Chain merges hook sets. Each callback runs every non-nil hook in order.
func Chain(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, h := range sets {
		out.OnStateEnter = chainState(out.OnStateEnter, h.OnStateEnter)
		out.OnInputRejected = chainState(out.OnInputRejected, h.OnInputRejected)
		out.OnRecordPersisted = chainRecord(out.OnRecordPersisted, h.OnRecordPersisted)
		out.OnPersistFailed = chainRecord(out.OnPersistFailed, h.OnPersistFailed)
		out.OnCancelled = chainState(out.OnCancelled, h.OnCancelled)
		out.OnFinished = chainState(out.OnFinished, h.OnFinished)
	}
	return out
}

func chainState(a, b func(context.Context, *domain.StateEvent)) func(context.Context, *domain.StateEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *domain.StateEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}

func chainRecord(a, b func(context.Context, *domain.RecordEvent)) func(context.Context, *domain.RecordEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *domain.RecordEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}
