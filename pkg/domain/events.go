package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventStateEnter      EventType = "state_enter"
	EventInputRejected   EventType = "input_rejected"
	EventRecordPersisted EventType = "record_persisted"
	EventPersistFailed   EventType = "persist_failed"
	EventCancelled       EventType = "cancelled"
	EventFinished        EventType = "finished"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp      time.Time `json:"timestamp"`
	Type           EventType `json:"type"`
	ConversationID string    `json:"conversation_id"`
}

// StateEvent represents entry into a dialogue state, or a rejection in it.
type StateEvent struct {
	EventBase
	State  StateID `json:"state"`
	Reason string  `json:"reason,omitempty"`
}

// RecordEvent represents a record append attempt.
type RecordEvent struct {
	EventBase
	Index  int          `json:"index"`
	Record RentalRecord `json:"record"`
	Err    error        `json:"-"`
}

// LifecycleHooks defines callbacks for observability.
// Any hook may be nil.
type LifecycleHooks struct {
	OnStateEnter      func(context.Context, *StateEvent)
	OnInputRejected   func(context.Context, *StateEvent)
	OnRecordPersisted func(context.Context, *RecordEvent)
	OnPersistFailed   func(context.Context, *RecordEvent)
	OnCancelled       func(context.Context, *StateEvent)
	OnFinished        func(context.Context, *StateEvent)
}
