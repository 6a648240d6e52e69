package rentdesk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/rentdesk/internal/logging"
	"github.com/aretw0/rentdesk/internal/runtime"
	"github.com/aretw0/rentdesk/pkg/adapters/memory"
	"github.com/aretw0/rentdesk/pkg/catalog"
	"github.com/aretw0/rentdesk/pkg/domain"
	"github.com/aretw0/rentdesk/pkg/edit"
	"github.com/aretw0/rentdesk/pkg/ports"
	"github.com/aretw0/rentdesk/pkg/records"
	"github.com/aretw0/rentdesk/pkg/session"
)

// Desk is the high-level entry point of the rental registration desk.
// It owns the record store, the session manager, the dialogue state machine
// and the edit engine, and exposes them to a conversational host.
type Desk struct {
	catalog  *domain.Catalog
	backend  ports.RecordBackend
	sessions ports.SessionStore
	emitter  ports.Emitter
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	now      func() time.Time

	records *records.Store
	manager *session.Manager
	runtime *runtime.Engine
	editor  *edit.Engine
}

// Reply is what the desk produced for one inbound event.
type Reply struct {
	Prompts []domain.Prompt `json:"prompts"`

	// Rejection is set when the input was refused and the prompt reissued.
	Rejection *domain.ValidationError `json:"rejection,omitempty"`

	// Done reports that the conversation has no dialogue in progress anymore.
	Done bool `json:"done"`
}

// Option defines a functional option for configuring the Desk.
type Option func(*Desk)

// WithCatalog sets the enumerations driving the dialogue (default: the "standard" profile).
func WithCatalog(c domain.Catalog) Option {
	return func(d *Desk) {
		d.catalog = &c
	}
}

// WithRecordBackend sets where records are persisted (default: in memory).
func WithRecordBackend(b ports.RecordBackend) Option {
	return func(d *Desk) {
		d.backend = b
	}
}

// WithSessionStore sets where in-flight dialogues live (default: in memory).
func WithSessionStore(s ports.SessionStore) Option {
	return func(d *Desk) {
		d.sessions = s
	}
}

// WithEmitter registers the outbound side of the conversational interface.
// Every prompt the desk produces is also returned in the Reply.
func WithEmitter(e ports.Emitter) Option {
	return func(d *Desk) {
		d.emitter = e
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(d *Desk) {
		d.hooks = hooks
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Desk) {
		d.logger = logger
	}
}

// WithClock overrides time.Now for date checks and record timestamps.
func WithClock(now func() time.Time) Option {
	return func(d *Desk) {
		d.now = now
	}
}

// New initializes a Desk and loads the persisted records.
func New(ctx context.Context, opts ...Option) (*Desk, error) {
	d := &Desk{}
	for _, opt := range opts {
		opt(d)
	}

	if d.catalog == nil {
		c, err := catalog.Builtin(catalog.DefaultProfile)
		if err != nil {
			return nil, err
		}
		d.catalog = &c
	}
	if err := d.catalog.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	if d.backend == nil {
		d.backend = memory.NewBackend()
	}
	if d.sessions == nil {
		d.sessions = memory.NewStore()
	}
	if d.logger == nil {
		d.logger = logging.NewNop()
	}
	if d.now == nil {
		d.now = time.Now
	}

	store, err := records.Open(ctx, d.backend, records.WithLogger(d.logger))
	if err != nil {
		return nil, err
	}
	d.records = store
	d.manager = session.NewManager(d.sessions, session.WithLogger(d.logger))
	d.runtime = runtime.NewEngine(*d.catalog, store,
		runtime.WithLogger(d.logger),
		runtime.WithLifecycleHooks(d.hooks),
		runtime.WithClock(d.now),
	)
	d.editor = edit.New(store, *d.catalog, edit.WithLogger(d.logger), edit.WithClock(d.now))
	return d, nil
}

// Catalog returns the enumerations in use.
func (d *Desk) Catalog() domain.Catalog { return *d.catalog }

// Store returns the record store.
func (d *Desk) Store() *records.Store { return d.records }

// Sessions returns the session manager.
func (d *Desk) Sessions() *session.Manager { return d.manager }

// Flow returns the dialogue states and the transitions between them.
func (d *Desk) Flow() ([]domain.StateID, []domain.Transition) {
	return d.runtime.States(), d.runtime.Transitions()
}

// Begin starts a registration dialogue, replacing any dialogue already in
// progress for the conversation.
func (d *Desk) Begin(ctx context.Context, conversationID string) (Reply, error) {
	var out runtime.Outcome
	err := d.manager.Update(ctx, conversationID, func(current *domain.Session) (*domain.Session, error) {
		if current != nil {
			d.logger.InfoContext(ctx, "restarting registration", "conversation_id", conversationID, "state", current.State)
		}
		out = d.runtime.Start(ctx, conversationID)
		return out.Session, nil
	})
	if err != nil {
		return Reply{}, err
	}
	return d.reply(ctx, conversationID, out), nil
}

// OnText feeds a free-text message to the conversation.
func (d *Desk) OnText(ctx context.Context, conversationID, text string) (Reply, error) {
	return d.handle(ctx, conversationID, domain.TextInput(text))
}

// OnPhoto feeds the reference of a stored photo to the conversation.
func (d *Desk) OnPhoto(ctx context.Context, conversationID, photoRef string) (Reply, error) {
	return d.handle(ctx, conversationID, domain.PhotoInput(photoRef))
}

// OnButton feeds a button selection to the conversation.
func (d *Desk) OnButton(ctx context.Context, conversationID, token string) (Reply, error) {
	return d.handle(ctx, conversationID, domain.ButtonInput(token))
}

// OnCancel discards the dialogue in progress. Cancelling a conversation
// without a dialogue is a no-op and yields an empty reply.
func (d *Desk) OnCancel(ctx context.Context, conversationID string) (Reply, error) {
	var out runtime.Outcome
	err := d.manager.Update(ctx, conversationID, func(current *domain.Session) (*domain.Session, error) {
		out = d.runtime.Cancel(ctx, current)
		return nil, nil
	})
	if err != nil {
		return Reply{}, err
	}
	return d.reply(ctx, conversationID, out), nil
}

// handle runs one input through the state machine under the conversation lock.
// A *domain.PersistenceError is returned together with the reply telling the
// operator to start again; the session is discarded in that case.
func (d *Desk) handle(ctx context.Context, conversationID string, in domain.Input) (Reply, error) {
	var out runtime.Outcome
	err := d.manager.Update(ctx, conversationID, func(current *domain.Session) (*domain.Session, error) {
		if current == nil {
			return nil, domain.ErrNoActiveConversation
		}
		var err error
		out, err = d.runtime.Handle(ctx, current, in)
		if err != nil && !isPersistence(err) {
			return current, err
		}
		return out.Session, err
	})
	if err != nil && !isPersistence(err) {
		return Reply{}, err
	}
	return d.reply(ctx, conversationID, out), err
}

func (d *Desk) reply(ctx context.Context, conversationID string, out runtime.Outcome) Reply {
	for _, p := range out.Prompts {
		if d.emitter == nil {
			break
		}
		if err := d.emitter.Emit(ctx, conversationID, p); err != nil {
			d.logger.WarnContext(ctx, "failed to emit prompt", "conversation_id", conversationID, "state", p.State, "err", err)
		}
	}
	return Reply{Prompts: out.Prompts, Rejection: out.Rejection, Done: out.Done()}
}

func isPersistence(err error) bool {
	var perr *domain.PersistenceError
	return errors.As(err, &perr)
}

// Records returns every persisted record in insertion order.
func (d *Desk) Records() []domain.RentalRecord { return d.records.All() }

// ForDate returns the records of one rental date.
func (d *Desk) ForDate(date string) []domain.RentalRecord { return d.records.ForDate(date) }

// Search matches records by identity, document, kind, variant or slot.
func (d *Desk) Search(query string) []records.Match { return d.records.Search(query) }

// Clients groups the records of one date by client, in first-seen order.
func (d *Desk) Clients(date string) []records.ClientGroup {
	return records.GroupByClient(d.records.ForDate(date))
}

// Timeline groups all records by date in chronological order.
// last > 0 keeps only the most recent dates.
func (d *Desk) Timeline(last int) []records.DateGroup {
	return records.Timeline(d.records.All(), last)
}

// Receipts partitions clients by whether a receipt photo was recorded.
func (d *Desk) Receipts() records.ReceiptReport {
	return records.Receipts(d.records.All())
}

// ExportCSV writes every record as CSV with a fixed column order.
func (d *Desk) ExportCSV(w io.Writer) error { return d.records.ExportCSV(w) }

// Import appends a batch of records in one write.
func (d *Desk) Import(ctx context.Context, batch []domain.RentalRecord) (int, error) {
	return d.records.AppendAll(ctx, batch)
}

// FindCandidates lists the records whose client identity matches the query.
func (d *Desk) FindCandidates(query string) []records.Match { return d.editor.FindCandidates(query) }

// Resolve returns the single record matching the query or a *domain.LookupError.
func (d *Desk) Resolve(query string) (records.Match, error) { return d.editor.Resolve(query) }

// ApplyFieldEdit overwrites one field of one record.
func (d *Desk) ApplyFieldEdit(ctx context.Context, index int, field, value string) (edit.Change, error) {
	return d.editor.ApplyFieldEdit(ctx, index, field, value)
}
