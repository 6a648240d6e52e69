package cli

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/aretw0/rentdesk"
	"github.com/aretw0/rentdesk/pkg/records"
)

// ListOptions filters the record listing.
type ListOptions struct {
	Date string
	Last int
}

// ListRecords prints the stored records with their store index.
func ListRecords(w io.Writer, desk *rentdesk.Desk, opts ListOptions) error {
	keep := map[string]bool{}
	if opts.Last > 0 {
		for _, g := range desk.Timeline(opts.Last) {
			keep[g.Date] = true
		}
	}

	var matches []records.Match
	for i, r := range desk.Records() {
		if opts.Date != "" && r.Date != opts.Date {
			continue
		}
		if opts.Last > 0 && !keep[r.Date] {
			continue
		}
		matches = append(matches, records.Match{Index: i, Record: r})
	}
	if len(matches) == 0 {
		fmt.Fprintln(w, "No records found.")
		return nil
	}
	return printMatches(w, matches)
}

// SearchRecords prints the records matching query.
func SearchRecords(w io.Writer, desk *rentdesk.Desk, query string) error {
	matches := desk.Search(query)
	if len(matches) == 0 {
		fmt.Fprintf(w, "No records match %q.\n", query)
		return nil
	}
	return printMatches(w, matches)
}

func printMatches(w io.Writer, matches []records.Match) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tDATE\tCLIENT\tRENTAL\tSLOT\tDURATION\tPAYMENT\tAMOUNT\tRECEIPT")
	for _, m := range matches {
		r := m.Record
		receipt := "-"
		if r.ReceiptPhotoRef != "" {
			receipt = "yes"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s %s\t%s\t%s\t%s\t%s\t%s\n",
			m.Index, r.Date, r.ClientName(), r.RentalKind, r.RentalVariant,
			dash(r.SlotIdentifier), r.Duration, r.PaymentMethod, dash(r.Amount.String()), receipt)
	}
	return tw.Flush()
}

// PrintClients prints the clients of a date with their rentals.
func PrintClients(w io.Writer, desk *rentdesk.Desk, date string) error {
	groups := desk.Clients(date)
	if len(groups) == 0 {
		fmt.Fprintf(w, "No clients on %s.\n", date)
		return nil
	}
	for _, g := range groups {
		fmt.Fprintf(w, "%s (%d)\n", g.Client, len(g.Records))
		for _, r := range g.Records {
			line := fmt.Sprintf("  - %s %s, %s", r.RentalKind, r.RentalVariant, r.Duration)
			if r.SlotIdentifier != "" {
				line += ", slot " + r.SlotIdentifier
			}
			if !r.Amount.IsZero() {
				line += ", " + r.Amount.String()
			}
			fmt.Fprintln(w, line)
		}
	}
	return nil
}

// PrintTimeline prints the records grouped by date, oldest first.
func PrintTimeline(w io.Writer, desk *rentdesk.Desk, last int) error {
	groups := desk.Timeline(last)
	if len(groups) == 0 {
		fmt.Fprintln(w, "No records found.")
		return nil
	}
	total := 0
	for _, g := range groups {
		fmt.Fprintf(w, "%s: %d rental(s)\n", g.Date, len(g.Records))
		for _, c := range records.GroupByClient(g.Records) {
			fmt.Fprintf(w, "  %s (%d)\n", c.Client, len(c.Records))
		}
		total += len(g.Records)
	}
	fmt.Fprintf(w, "Total: %d rental(s)\n", total)
	return nil
}

// PrintReceipts prints which clients have receipt photos.
func PrintReceipts(w io.Writer, desk *rentdesk.Desk) error {
	rep := desk.Receipts()
	fmt.Fprintf(w, "With receipt (%d):\n", len(rep.WithReceipt))
	for _, st := range rep.WithReceipt {
		fmt.Fprintf(w, "  %s: %d/%d\n", st.Client, st.WithReceipts, st.Records)
	}
	fmt.Fprintf(w, "Without receipt (%d):\n", len(rep.WithoutReceipt))
	for _, st := range rep.WithoutReceipt {
		fmt.Fprintf(w, "  %s: %d rental(s)\n", st.Client, st.Records)
	}
	return nil
}

// ExportRecords writes the CSV export to path, or to w when path is empty or "-".
func ExportRecords(w io.Writer, desk *rentdesk.Desk, path string) error {
	if path == "" || path == "-" {
		return desk.ExportCSV(w)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := desk.ExportCSV(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	printSystemMessage(w, "Exported %d record(s) to %s", desk.Store().Len(), path)
	return nil
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
