package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/aretw0/rentdesk"
	"github.com/aretw0/rentdesk/pkg/legacy"
)

// ImportOptions configures a legacy import.
type ImportOptions struct {
	Path     string
	Location *time.Location
	DryRun   bool
}

// ImportLegacy converts the legacy JSON file at path and appends the records.
func ImportLegacy(ctx context.Context, w io.Writer, desk *rentdesk.Desk, opts ImportOptions) error {
	f, err := os.Open(opts.Path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", opts.Path, err)
	}
	defer f.Close()

	importerOpts := []legacy.Option{legacy.WithDefaultVariant(desk.Catalog().DefaultVariant)}
	if opts.Location != nil {
		importerOpts = append(importerOpts, legacy.WithLocation(opts.Location))
	}
	res, err := legacy.NewImporter(importerOpts...).Import(f)
	if err != nil {
		return err
	}

	for _, s := range res.Skipped {
		fmt.Fprintf(w, "skipped entry %d: %s\n", s.Index, s.Reason)
	}
	if opts.DryRun {
		printSystemMessage(w, "%d record(s) would be imported, %d skipped", len(res.Records), len(res.Skipped))
		return nil
	}

	n, err := desk.Import(ctx, res.Records)
	if err != nil {
		return err
	}
	printSystemMessage(w, "Imported %d record(s), %d skipped", n, len(res.Skipped))
	return nil
}
