package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/rentdesk/pkg/domain"
	"github.com/aretw0/rentdesk/pkg/validate"
)

// Recorder is the part of the record store the state machine writes to.
type Recorder interface {
	Append(ctx context.Context, rec domain.RentalRecord) (int, error)
	Get(index int) (domain.RentalRecord, error)
}

// Engine sequences the registration dialogue.
// It is stateless between calls: the session is passed in and a new one is
// returned, so the caller owns storage and locking.
type Engine struct {
	catalog  domain.Catalog
	recorder Recorder
	table    map[domain.StateID]step
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	now      func() time.Time
}

// Outcome is the result of handling one inbound event.
type Outcome struct {
	// Session is the updated session, nil once the dialogue ended.
	Session *domain.Session

	// Prompts are the messages to emit, in order.
	Prompts []domain.Prompt

	// Rejection is set when the input was refused. Session is then unchanged.
	Rejection *domain.ValidationError
}

// Done reports whether the session must be discarded.
func (o Outcome) Done() bool { return o.Session == nil }

// NewEngine creates a state machine over a catalog and a record store.
func NewEngine(catalog domain.Catalog, recorder Recorder, opts ...EngineOption) *Engine {
	e := &Engine{
		catalog:  catalog,
		recorder: recorder,
		table:    transitions(),
		logger:   defaultLogger(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Catalog returns the enumerations driving the dialogue.
func (e *Engine) Catalog() domain.Catalog { return e.catalog }

// Start opens a new session at the initial state and returns its first prompt.
func (e *Engine) Start(ctx context.Context, conversationID string) Outcome {
	sess := domain.NewSession(conversationID, e.now())
	e.emitStateEnter(ctx, sess)
	return Outcome{Session: sess, Prompts: []domain.Prompt{e.Prompt(sess)}}
}

// Prompt renders the prompt of the session's current state.
func (e *Engine) Prompt(sess *domain.Session) domain.Prompt {
	st, ok := e.table[sess.State]
	if !ok {
		return domain.Prompt{State: sess.State}
	}
	text, choices := st.prompt(e, &sess.Fields)
	return domain.Prompt{State: sess.State, Text: text, Choices: choices}
}

// Handle feeds one input to the session.
// Validation failures are not errors: the outcome carries the reprompt.
// A non-nil error is a *domain.PersistenceError and the session is gone.
func (e *Engine) Handle(ctx context.Context, sess *domain.Session, in domain.Input) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return Outcome{Session: sess}, err
	}
	if sess == nil || sess.State.IsTerminal() {
		return Outcome{}, domain.ErrNoActiveConversation
	}
	st, ok := e.table[sess.State]
	if !ok {
		return Outcome{Session: sess}, fmt.Errorf("state %q has no transition", sess.State)
	}

	clean, err := validate.Sanitize(in.Value)
	if err != nil {
		return e.reject(ctx, sess, st, err.Error()), nil
	}
	in.Value = clean

	res := st.accept(e, sess, in)
	if !res.OK() {
		return e.reject(ctx, sess, st, res.Reason), nil
	}

	next := sess.Snapshot()
	st.apply(e, next, res.Value)
	next.State = st.next(next.Fields, res.Value)
	next.UpdatedAt = e.now()

	switch next.State {
	case domain.StatePersistRecord:
		return e.persist(ctx, next)
	case domain.StateFinished:
		return e.finish(ctx, next), nil
	}

	e.emitStateEnter(ctx, next)
	return Outcome{Session: next, Prompts: []domain.Prompt{e.Prompt(next)}}, nil
}

// Cancel discards the session without persisting anything.
// Cancelling a nil session is a no-op.
func (e *Engine) Cancel(ctx context.Context, sess *domain.Session) Outcome {
	if sess == nil {
		return Outcome{}
	}
	e.logger.InfoContext(ctx, "registration cancelled", "conversation_id", sess.ConversationID, "state", sess.State)
	if e.hooks.OnCancelled != nil {
		e.hooks.OnCancelled(ctx, &domain.StateEvent{
			EventBase: e.event(domain.EventCancelled, sess.ConversationID),
			State:     sess.State,
		})
	}
	return Outcome{Prompts: []domain.Prompt{{
		State: domain.StateCancelled,
		Text:  "Registration cancelled. Nothing was saved for the rental in progress.",
	}}}
}

func (e *Engine) reject(ctx context.Context, sess *domain.Session, st step, reason string) Outcome {
	e.logger.DebugContext(ctx, "input rejected", "conversation_id", sess.ConversationID, "state", sess.State, "reason", reason)
	if e.hooks.OnInputRejected != nil {
		e.hooks.OnInputRejected(ctx, &domain.StateEvent{
			EventBase: e.event(domain.EventInputRejected, sess.ConversationID),
			State:     sess.State,
			Reason:    reason,
		})
	}
	p := e.Prompt(sess)
	p.Reason = reason
	return Outcome{
		Session: sess,
		Prompts: []domain.Prompt{p},
		Rejection: &domain.ValidationError{
			State:   sess.State,
			Field:   st.field,
			Reason:  reason,
			Choices: p.Choices,
		},
	}
}

func (e *Engine) persist(ctx context.Context, sess *domain.Session) (Outcome, error) {
	e.emitStateEnter(ctx, sess)

	rec, err := sess.Fields.Materialize(e.now().UTC())
	if err == nil {
		var idx int
		idx, err = e.recorder.Append(ctx, rec)
		if err == nil {
			return e.persisted(ctx, sess, idx, rec), nil
		}
	}

	var perr *domain.PersistenceError
	if !errors.As(err, &perr) {
		perr = &domain.PersistenceError{Op: "append", Err: err}
	}
	e.logger.ErrorContext(ctx, "failed to persist rental", "conversation_id", sess.ConversationID, "err", err)
	if e.hooks.OnPersistFailed != nil {
		e.hooks.OnPersistFailed(ctx, &domain.RecordEvent{
			EventBase: e.event(domain.EventPersistFailed, sess.ConversationID),
			Index:     -1,
			Record:    rec,
			Err:       perr,
		})
	}
	return Outcome{Prompts: []domain.Prompt{{
		State: domain.StateCancelled,
		Text:  "The rental could not be saved. Please start the registration again.",
	}}}, perr
}

func (e *Engine) persisted(ctx context.Context, sess *domain.Session, idx int, rec domain.RentalRecord) Outcome {
	if sess.Base == nil {
		id := rec.Identity()
		sess.Base = &id
	}
	sess.Persisted = append(sess.Persisted, idx)
	sess.State = domain.StateOfferContinue

	e.logger.InfoContext(ctx, "rental persisted", "conversation_id", sess.ConversationID, "record_index", idx)
	if e.hooks.OnRecordPersisted != nil {
		e.hooks.OnRecordPersisted(ctx, &domain.RecordEvent{
			EventBase: e.event(domain.EventRecordPersisted, sess.ConversationID),
			Index:     idx,
			Record:    rec,
		})
	}
	e.emitStateEnter(ctx, sess)

	p := e.Prompt(sess)
	p.Text = confirmation(rec) + "\n" + p.Text
	return Outcome{Session: sess, Prompts: []domain.Prompt{p}}
}

func (e *Engine) finish(ctx context.Context, sess *domain.Session) Outcome {
	summary := e.summarize(sess)
	if e.hooks.OnFinished != nil {
		e.hooks.OnFinished(ctx, &domain.StateEvent{
			EventBase: e.event(domain.EventFinished, sess.ConversationID),
			State:     domain.StateFinished,
		})
	}
	return Outcome{Prompts: []domain.Prompt{{
		State:   domain.StateFinished,
		Text:    summaryText(summary),
		Summary: &summary,
	}}}
}

func (e *Engine) emitStateEnter(ctx context.Context, sess *domain.Session) {
	if e.hooks.OnStateEnter != nil {
		e.hooks.OnStateEnter(ctx, &domain.StateEvent{
			EventBase: e.event(domain.EventStateEnter, sess.ConversationID),
			State:     sess.State,
		})
	}
}

func (e *Engine) event(t domain.EventType, conversationID string) domain.EventBase {
	return domain.EventBase{Timestamp: e.now(), Type: t, ConversationID: conversationID}
}
