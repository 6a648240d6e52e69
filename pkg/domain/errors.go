package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSessionNotFound is returned when a conversation id has no stored session.
var ErrSessionNotFound = errors.New("session not found")

// ErrNoActiveConversation is returned when input arrives for a conversation with no dialogue in progress.
var ErrNoActiveConversation = errors.New("no registration in progress")

// ErrRecordNotFound is returned when a record index is out of range.
var ErrRecordNotFound = errors.New("record not found")

// ErrUnknownField is returned when an edit names a field that cannot be edited.
var ErrUnknownField = errors.New("unknown field")

// ErrStoreUnavailable marks backend failures (I/O, network) of the record store.
var ErrStoreUnavailable = errors.New("record store unavailable")

// ValidationError is a recoverable rejection of one input.
// The dialogue stays in the same state and the prompt is reissued.
type ValidationError struct {
	State   StateID  `json:"state,omitempty"`
	Field   string   `json:"field,omitempty"`
	Reason  string   `json:"reason"`
	Choices []string `json:"choices,omitempty"`
}

func (e *ValidationError) Error() string {
	target := e.Field
	if target == "" {
		target = string(e.State)
	}
	if len(e.Choices) > 0 {
		return fmt.Sprintf("invalid %s: %s (valid: %s)", target, e.Reason, strings.Join(e.Choices, ", "))
	}
	return fmt.Sprintf("invalid %s: %s", target, e.Reason)
}

// PersistenceError reports a failed write to the record store.
// The in-flight session is discarded; nothing partial is kept.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failed during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// LookupError reports that a search or edit did not resolve to exactly one record.
type LookupError struct {
	Query      string
	Candidates int
}

func (e *LookupError) Error() string {
	if e.IsZero() {
		return fmt.Sprintf("no record matches %q", e.Query)
	}
	return fmt.Sprintf("%d records match %q, refine the query", e.Candidates, e.Query)
}

// IsZero reports that nothing matched.
func (e *LookupError) IsZero() bool { return e.Candidates == 0 }

// IsAmbiguous reports that more than one record matched.
func (e *LookupError) IsAmbiguous() bool { return e.Candidates > 1 }
