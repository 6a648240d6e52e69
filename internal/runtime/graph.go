package runtime

import (
	"github.com/aretw0/rentdesk/pkg/domain"
)

// stateOrder lists the non-terminal states in the order the dialogue visits them.
var stateOrder = []domain.StateID{
	domain.StateCollectDate,
	domain.StateCollectLastName,
	domain.StateCollectFirstName,
	domain.StateCollectDocType,
	domain.StateCollectDocNumber,
	domain.StateCollectPhone,
	domain.StateCollectMembership,
	domain.StateCollectRentalKind,
	domain.StateCollectSUPVariant,
	domain.StateCollectLoungerArea,
	domain.StateCollectSlotID,
	domain.StateCollectDuration,
	domain.StateCollectPaymentMethod,
	domain.StateCollectAmount,
	domain.StateOfferPhoto,
	domain.StateAwaitPhoto,
	domain.StateCollectNotes,
	domain.StatePersistRecord,
	domain.StateOfferContinue,
}

// States returns every state of the dialogue, terminal states last.
func (e *Engine) States() []domain.StateID {
	out := append([]domain.StateID(nil), stateOrder...)
	return append(out, domain.StateFinished, domain.StateCancelled)
}

// Transitions derives the edges of the dialogue from the transition table.
// Branching states are probed with each of their choices; every non-terminal
// state also gets a cancel edge.
func (e *Engine) Transitions() []domain.Transition {
	var out []domain.Transition
	for _, id := range stateOrder {
		if id == domain.StatePersistRecord {
			out = append(out,
				domain.Transition{From: id, To: domain.StateOfferContinue, Label: "saved"},
				domain.Transition{From: id, To: domain.StateCancelled, Label: "store failed"},
			)
			continue
		}
		st := e.table[id]
		out = append(out, e.probe(id, st)...)
		out = append(out, domain.Transition{From: id, To: domain.StateCancelled, Cancel: true})
	}
	return out
}

func (e *Engine) probe(id domain.StateID, st step) []domain.Transition {
	switch id {
	case domain.StateCollectRentalKind:
		seen := make(map[domain.StateID]bool)
		var out []domain.Transition
		for _, k := range domain.RentalKinds {
			to := st.next(domain.Fields{RentalKind: k}, string(k))
			if seen[to] {
				for i := range out {
					if out[i].To == to {
						out[i].Label += ", " + string(k)
					}
				}
				continue
			}
			seen[to] = true
			out = append(out, domain.Transition{From: id, To: to, Label: string(k)})
		}
		return out
	case domain.StateOfferPhoto, domain.StateOfferContinue:
		_, choices := st.prompt(e, &domain.Fields{})
		out := make([]domain.Transition, 0, len(choices))
		for _, c := range choices {
			out = append(out, domain.Transition{From: id, To: st.next(domain.Fields{}, c), Label: c})
		}
		return out
	default:
		return []domain.Transition{{From: id, To: st.next(domain.Fields{}, "")}}
	}
}
