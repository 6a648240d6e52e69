package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/rentdesk"
	"github.com/aretw0/rentdesk/pkg/domain"
)

// EditOptions selects the record and the change. Exactly one of Query or
// Index (>= 0) identifies the record.
type EditOptions struct {
	Query string
	Index int
	Field string
	Value string
}

// EditRecord applies a single-field edit and prints the previous and new value.
func EditRecord(ctx context.Context, w io.Writer, desk *rentdesk.Desk, opts EditOptions) error {
	index := opts.Index
	if opts.Query != "" {
		match, err := desk.Resolve(opts.Query)
		if err != nil {
			var lerr *domain.LookupError
			if errors.As(err, &lerr) && lerr.IsAmbiguous() {
				fmt.Fprintf(w, "%d records match %q:\n", lerr.Candidates, opts.Query)
				_ = printMatches(w, desk.FindCandidates(opts.Query))
			}
			return err
		}
		index = match.Index
	}
	if index < 0 {
		return errors.New("either --query or --index is required")
	}

	change, err := desk.ApplyFieldEdit(ctx, index, opts.Field, opts.Value)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Record %d (%s): %s %q -> %q\n", change.Index, change.Record.ClientName(), change.Field, change.Old, change.New)
	for _, also := range change.Also {
		fmt.Fprintf(w, "  also %s %q -> %q\n", also.Field, also.Old, also.New)
	}
	return nil
}
