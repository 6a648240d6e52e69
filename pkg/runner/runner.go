package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"unicode"

	"github.com/aretw0/rentdesk"
	"github.com/aretw0/rentdesk/internal/logging"
	"github.com/aretw0/rentdesk/pkg/domain"
	"github.com/google/uuid"
)

// Dialogue is the inbound side of the desk the runner drives.
type Dialogue interface {
	Begin(ctx context.Context, conversationID string) (rentdesk.Reply, error)
	OnText(ctx context.Context, conversationID, text string) (rentdesk.Reply, error)
	OnPhoto(ctx context.Context, conversationID, photoRef string) (rentdesk.Reply, error)
	OnButton(ctx context.Context, conversationID, token string) (rentdesk.Reply, error)
	OnCancel(ctx context.Context, conversationID string) (rentdesk.Reply, error)
}

const (
	cmdStart  = "/start"
	cmdCancel = "/cancel"
	cmdPhoto  = "/photo"
	cmdQuit   = "/quit"
	cmdExit   = "/exit"
)

const restartHint = "Type /start to register another client or /quit to exit."

// Runner handles the input loop of one terminal conversation.
type Runner struct {
	// Handler is the strategy for IO.
	Handler IOHandler

	// Logger is used for internal debug logging.
	Logger *slog.Logger

	// ConversationID identifies the conversation driven by this runner.
	ConversationID string

	// Once stops the loop when the first registration ends.
	Once bool
}

// NewRunner creates a Runner. Without options it uses a TextHandler on
// Stdin/Stdout and a random conversation id.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{}
	for _, opt := range opts {
		opt(r)
	}
	if r.Handler == nil {
		r.Handler = NewTextHandler(nil, nil)
	}
	if r.Logger == nil {
		r.Logger = logging.NewNop()
	}
	if r.ConversationID == "" {
		r.ConversationID = "term-" + uuid.NewString()
	}
	return r
}

// command is one parsed line of operator input.
type command struct {
	name  string
	value string
}

// parse maps a line to a command. Lines that are not slash commands select
// a choice when the current prompt offers one (by token or by number),
// and are free text otherwise. When the tokens themselves start with a digit,
// as durations do, a number names the token ("3" is "3h") rather than its
// position in the list.
func parse(line string, choices []string) command {
	if strings.HasPrefix(line, "/") {
		name, arg, _ := strings.Cut(line, " ")
		return command{name: strings.ToLower(name), value: strings.TrimSpace(arg)}
	}
	if len(choices) == 0 {
		return command{name: "text", value: line}
	}
	for _, c := range choices {
		if strings.EqualFold(c, line) {
			return command{name: "button", value: c}
		}
	}
	if numericChoices(choices) {
		v := strings.ReplaceAll(line, ",", ".")
		for _, c := range choices {
			if strings.TrimRightFunc(c, unicode.IsLetter) == v {
				return command{name: "button", value: c}
			}
		}
		return command{name: "text", value: line}
	}
	if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(choices) {
		return command{name: "button", value: choices[n-1]}
	}
	return command{name: "text", value: line}
}

func numericChoices(choices []string) bool {
	for _, c := range choices {
		if c != "" && c[0] >= '0' && c[0] <= '9' {
			return true
		}
	}
	return false
}

// Run drives the conversation until the input ends, the operator quits, or
// the process is interrupted. A registration in progress when the loop stops
// is cancelled.
func (r *Runner) Run(ctx context.Context, desk Dialogue) error {
	signals := NewSignalManager(ctx)
	defer signals.Stop()

	id := r.ConversationID
	log := r.Logger.With("conversation_id", id)

	reply, err := desk.Begin(signals.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to start registration: %w", err)
	}
	if err := r.Handler.Output(ctx, reply.Prompts); err != nil {
		return fmt.Errorf("output error: %w", err)
	}
	active := !reply.Done
	choices := lastChoices(reply)

	stop := func() error {
		if active {
			// The signal context may already be cancelled; the discard must still happen.
			if _, err := desk.OnCancel(context.WithoutCancel(ctx), id); err != nil {
				return err
			}
			log.Info("registration abandoned")
		}
		return nil
	}

	for {
		line, err := r.Handler.Input(signals.Context())
		if err != nil {
			if errors.Is(err, io.EOF) || signals.Interrupted() {
				return stop()
			}
			return fmt.Errorf("input error: %w", err)
		}

		cmd := parse(line, choices)
		log.Debug("operator input", "command", cmd.name)

		switch cmd.name {
		case cmdQuit, cmdExit:
			return stop()
		case cmdStart:
			reply, err = desk.Begin(ctx, id)
		case cmdCancel:
			reply, err = desk.OnCancel(ctx, id)
		case cmdPhoto:
			if cmd.value == "" {
				_ = r.Handler.SystemOutput(ctx, "Usage: /photo <reference>")
				continue
			}
			reply, err = desk.OnPhoto(ctx, id, cmd.value)
		case "button":
			reply, err = desk.OnButton(ctx, id, cmd.value)
		case "text":
			reply, err = desk.OnText(ctx, id, cmd.value)
		default:
			_ = r.Handler.SystemOutput(ctx, fmt.Sprintf("Unknown command %s. Commands: /start /cancel /photo <ref> /quit", cmd.name))
			continue
		}

		var perr *domain.PersistenceError
		switch {
		case errors.Is(err, domain.ErrNoActiveConversation):
			_ = r.Handler.SystemOutput(ctx, "No registration in progress. "+restartHint)
			continue
		case errors.As(err, &perr):
			log.Error("record not saved", "err", err)
			_ = r.Handler.SystemOutput(ctx, "Error: "+err.Error())
		case err != nil:
			return err
		}

		if err := r.Handler.Output(ctx, reply.Prompts); err != nil {
			return fmt.Errorf("output error: %w", err)
		}
		choices = lastChoices(reply)
		active = !reply.Done
		if reply.Done {
			if r.Once {
				return nil
			}
			_ = r.Handler.SystemOutput(ctx, restartHint)
		}
	}
}

func lastChoices(reply rentdesk.Reply) []string {
	if len(reply.Prompts) == 0 {
		return nil
	}
	return reply.Prompts[len(reply.Prompts)-1].Choices
}
