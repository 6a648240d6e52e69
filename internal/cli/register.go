package cli

import (
	"context"
	"io"
	"os"

	"github.com/aretw0/rentdesk/internal/presentation/tui"
	"github.com/aretw0/rentdesk/pkg/runner"
	"golang.org/x/term"
)

// RegisterOptions configures the terminal dialogue.
type RegisterOptions struct {
	JSON           bool
	Once           bool
	ConversationID string
	In             io.Reader
	Out            io.Writer
}

// RunRegister drives registration dialogues on the terminal.
func RunRegister(ctx context.Context, env *Environment, opts RegisterOptions) error {
	in, out := opts.In, opts.Out
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}

	runnerOpts := []runner.Option{
		runner.WithLogger(env.Logger),
		runner.WithOnce(opts.Once),
	}
	if opts.ConversationID != "" {
		runnerOpts = append(runnerOpts, runner.WithConversationID(opts.ConversationID))
	}

	if opts.JSON {
		runnerOpts = append(runnerOpts, runner.WithInputHandler(runner.NewJSONHandler(in, out)))
	} else {
		if isTerminal(out) {
			tui.PrintBanner(out)
		}
		runnerOpts = append(runnerOpts, runner.WithInputHandler(runner.NewTextHandler(in, out)))
	}

	r := runner.NewRunner(runnerOpts...)
	env.Logger.Info("terminal session started", "conversation_id", r.ConversationID)
	return HandleExecutionError(r.Run(ctx, env.Desk))
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
