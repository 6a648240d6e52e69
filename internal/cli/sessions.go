package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/aretw0/rentdesk"
)

// ListSessions prints the conversations with a dialogue in progress.
func ListSessions(ctx context.Context, w io.Writer, desk *rentdesk.Desk) error {
	ids, err := desk.Sessions().List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}
	if len(ids) == 0 {
		fmt.Fprintln(w, "No active sessions found.")
		return nil
	}
	fmt.Fprintln(w, "Active Sessions:")
	for _, id := range ids {
		sess, err := desk.Sessions().Load(ctx, id)
		if err != nil {
			fmt.Fprintf(w, "- %s\n", id)
			continue
		}
		fmt.Fprintf(w, "- %s (%s, updated %s)\n", id, sess.State, sess.UpdatedAt.Format("02/01/2006 15:04"))
	}
	return nil
}

// InspectSession prints a session as indented JSON.
func InspectSession(ctx context.Context, w io.Writer, desk *rentdesk.Desk, id string) error {
	sess, err := desk.Sessions().Load(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load session %q: %w", id, err)
	}
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

// RemoveSessions cancels the dialogues of the given conversations.
func RemoveSessions(ctx context.Context, w io.Writer, desk *rentdesk.Desk, ids []string) error {
	var failed int
	for _, id := range ids {
		if _, err := desk.OnCancel(ctx, id); err != nil {
			fmt.Fprintf(w, "Error removing '%s': %v\n", id, err)
			failed++
			continue
		}
		fmt.Fprintf(w, "Removed session '%s'\n", id)
	}
	if failed > 0 {
		return fmt.Errorf("%d session(s) could not be removed", failed)
	}
	return nil
}
