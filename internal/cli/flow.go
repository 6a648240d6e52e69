package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/rentdesk"
	"github.com/aretw0/rentdesk/internal/presentation/graph"
	"github.com/aretw0/rentdesk/pkg/domain"
)

// PrintFlow writes the dialogue as a Mermaid flowchart. When conversationID
// is set, the state of that conversation is highlighted.
func PrintFlow(ctx context.Context, w io.Writer, desk *rentdesk.Desk, conversationID string) error {
	states, transitions := desk.Flow()

	var overlay *graph.Overlay
	if conversationID != "" {
		sess, err := desk.Sessions().Load(ctx, conversationID)
		if err != nil {
			return fmt.Errorf("failed to load session %q: %w", conversationID, err)
		}
		overlay = &graph.Overlay{Visited: visited(sess.Fields), Current: sess.State}
	}

	_, err := io.WriteString(w, graph.GenerateMermaid(states, transitions, overlay))
	return err
}

// visited approximates the path taken so far from the fields already collected.
func visited(f domain.Fields) []domain.StateID {
	var out []domain.StateID
	add := func(id domain.StateID, done bool) {
		if done {
			out = append(out, id)
		}
	}
	add(domain.StateCollectDate, f.Date != "")
	add(domain.StateCollectLastName, f.LastName != "")
	add(domain.StateCollectFirstName, f.FirstName != "")
	add(domain.StateCollectDocType, f.IDDocumentType != "")
	add(domain.StateCollectDocNumber, f.IDDocumentNumber != "")
	add(domain.StateCollectPhone, f.Phone != "")
	add(domain.StateCollectMembership, f.IsMember != nil)
	add(domain.StateCollectRentalKind, f.RentalKind != "")
	add(domain.StateCollectSUPVariant, f.RentalKind == domain.KindSUP && f.RentalVariant != "")
	add(domain.StateCollectLoungerArea, f.RentalKind == domain.KindLounger && f.RentalVariant != "")
	add(domain.StateCollectSlotID, f.SlotIdentifier != "")
	add(domain.StateCollectDuration, f.Duration != "")
	add(domain.StateCollectPaymentMethod, f.PaymentMethod != "")
	add(domain.StateCollectAmount, f.Amount != nil)
	add(domain.StateAwaitPhoto, f.ReceiptPhotoRef != "")
	return out
}
