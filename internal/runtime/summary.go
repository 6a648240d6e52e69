package runtime

import (
	"fmt"
	"strings"

	"github.com/aretw0/rentdesk/pkg/domain"
)

// summarize collects the records this registration stored.
func (e *Engine) summarize(sess *domain.Session) domain.Summary {
	id := sess.Fields
	if sess.Base != nil {
		id.Restore(*sess.Base)
	}
	s := domain.Summary{
		Date:   id.Date,
		Client: id.LastName + " " + id.FirstName,
	}

	var cents int64
	for _, idx := range sess.Persisted {
		rec, err := e.recorder.Get(idx)
		if err != nil {
			e.logger.Warn("summary skips missing record", "conversation_id", sess.ConversationID, "record_index", idx, "err", err)
			continue
		}
		s.Records = append(s.Records, rec)
		if rec.Amount.Currency == e.catalog.Currency {
			cents += rec.Amount.Cents
		}
	}
	s.Total = domain.Amount{Cents: cents, Currency: e.catalog.Currency}
	return s
}

func confirmation(rec domain.RentalRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Saved %s %s", rec.RentalKind, rec.RentalVariant)
	if rec.SlotIdentifier != "" {
		fmt.Fprintf(&b, " #%s", rec.SlotIdentifier)
	}
	fmt.Fprintf(&b, ", %s, %s %s for %s on %s.", rec.Duration, rec.Amount, rec.PaymentMethod, rec.ClientName(), rec.Date)
	return b.String()
}

func summaryText(s domain.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Registration complete for %s on %s: %d rental(s)", s.Client, s.Date, len(s.Records))
	if s.Total.Cents > 0 {
		fmt.Fprintf(&b, ", total %s", s.Total)
	}
	b.WriteString(".")
	for _, rec := range s.Records {
		fmt.Fprintf(&b, "\n- %s %s", rec.RentalKind, rec.RentalVariant)
		if rec.SlotIdentifier != "" {
			fmt.Fprintf(&b, " #%s", rec.SlotIdentifier)
		}
		fmt.Fprintf(&b, ", %s, %s", rec.Duration, rec.Amount)
	}
	return b.String()
}
