package runtime

import (
	"fmt"
	"strings"

	"github.com/aretw0/rentdesk/pkg/domain"
	"github.com/aretw0/rentdesk/pkg/validate"
)

// step is one row of the transition table.
type step struct {
	field  string
	prompt func(e *Engine, f *domain.Fields) (string, []string)
	accept func(e *Engine, s *domain.Session, in domain.Input) validate.Result
	apply  func(e *Engine, s *domain.Session, value string)
	next   func(f domain.Fields, value string) domain.StateID
}

func goTo(id domain.StateID) func(domain.Fields, string) domain.StateID {
	return func(domain.Fields, string) domain.StateID { return id }
}

func ask(text string) func(*Engine, *domain.Fields) (string, []string) {
	return func(*Engine, *domain.Fields) (string, []string) { return text, nil }
}

// textual wraps a validator over text and button inputs; photos are refused.
func textual(v func(e *Engine, s *domain.Session, value string) validate.Result) func(*Engine, *domain.Session, domain.Input) validate.Result {
	return func(e *Engine, s *domain.Session, in domain.Input) validate.Result {
		if in.Kind == domain.InputPhoto {
			return validate.Rejected("a photo is not expected here")
		}
		return v(e, s, in.Value)
	}
}

func choice(options func(e *Engine, f *domain.Fields) []string) func(*Engine, *domain.Session, domain.Input) validate.Result {
	return textual(func(e *Engine, s *domain.Session, value string) validate.Result {
		return validate.Choice(value, options(e, &s.Fields))
	})
}

func freeText(v func(string) validate.Result) func(*Engine, *domain.Session, domain.Input) validate.Result {
	return textual(func(_ *Engine, _ *domain.Session, value string) validate.Result { return v(value) })
}

var yesNo = []string{domain.ChoiceYes, domain.ChoiceNo}

func docTypes(*Engine, *domain.Fields) []string         { return validate.Tokens(domain.DocumentTypes) }
func rentalKinds(*Engine, *domain.Fields) []string      { return validate.Tokens(domain.RentalKinds) }
func payments(*Engine, *domain.Fields) []string         { return validate.Tokens(domain.PaymentMethods) }
func supVariants(e *Engine, _ *domain.Fields) []string  { return e.catalog.SUPVariants }
func loungerAreas(e *Engine, _ *domain.Fields) []string { return e.catalog.LoungerAreas }
func durations(e *Engine, _ *domain.Fields) []string    { return e.catalog.Durations() }
func yesOrNo(*Engine, *domain.Fields) []string          { return yesNo }

func continuation(*Engine, *domain.Fields) []string {
	return []string{domain.ChoiceAddAnother, domain.ChoiceFinished}
}

func withChoices(text string, options func(*Engine, *domain.Fields) []string) func(*Engine, *domain.Fields) (string, []string) {
	return func(e *Engine, f *domain.Fields) (string, []string) { return text, options(e, f) }
}

// transitions is the declarative table of the dialogue.
// Branching on rental kind lives in the next function of collect_rental_kind.
func transitions() map[domain.StateID]step {
	return map[domain.StateID]step{
		domain.StateCollectDate: {
			field:  "date",
			prompt: ask("Rental date (DD/MM/YYYY)?"),
			accept: textual(func(e *Engine, _ *domain.Session, v string) validate.Result {
				return validate.Date(v, e.now(), e.catalog.MinYear)
			}),
			apply: func(_ *Engine, s *domain.Session, v string) { s.Fields.Date = v },
			next:  goTo(domain.StateCollectLastName),
		},
		domain.StateCollectLastName: {
			field:  "lastName",
			prompt: ask("Client last name?"),
			accept: freeText(validate.Text),
			apply:  func(_ *Engine, s *domain.Session, v string) { s.Fields.LastName = v },
			next:   goTo(domain.StateCollectFirstName),
		},
		domain.StateCollectFirstName: {
			field:  "firstName",
			prompt: ask("Client first name?"),
			accept: freeText(validate.Text),
			apply:  func(_ *Engine, s *domain.Session, v string) { s.Fields.FirstName = v },
			next:   goTo(domain.StateCollectDocType),
		},
		domain.StateCollectDocType: {
			field:  "idDocumentType",
			prompt: withChoices("Identity document type?", docTypes),
			accept: choice(docTypes),
			apply:  func(_ *Engine, s *domain.Session, v string) { s.Fields.IDDocumentType = domain.DocumentType(v) },
			next:   goTo(domain.StateCollectDocNumber),
		},
		domain.StateCollectDocNumber: {
			field:  "idDocumentNumber",
			prompt: ask("Document number?"),
			accept: freeText(validate.DocumentNumber),
			apply:  func(_ *Engine, s *domain.Session, v string) { s.Fields.IDDocumentNumber = v },
			next:   goTo(domain.StateCollectPhone),
		},
		domain.StateCollectPhone: {
			field:  "phone",
			prompt: ask("Phone number?"),
			accept: freeText(validate.Text),
			apply:  func(_ *Engine, s *domain.Session, v string) { s.Fields.Phone = v },
			next:   goTo(domain.StateCollectMembership),
		},
		domain.StateCollectMembership: {
			field:  "isMember",
			prompt: withChoices("Is the client a member?", yesOrNo),
			accept: choice(yesOrNo),
			apply: func(_ *Engine, s *domain.Session, v string) {
				member := v == domain.ChoiceYes
				s.Fields.IsMember = &member
			},
			next: goTo(domain.StateCollectRentalKind),
		},
		domain.StateCollectRentalKind: {
			field:  "rentalKind",
			prompt: withChoices("What is being rented?", rentalKinds),
			accept: choice(rentalKinds),
			apply:  applyKind,
			next:   nextAfterKind,
		},
		domain.StateCollectSUPVariant: {
			field:  "rentalVariant",
			prompt: withChoices("Which SUP board?", supVariants),
			accept: choice(supVariants),
			apply:  func(_ *Engine, s *domain.Session, v string) { s.Fields.RentalVariant = v },
			next:   goTo(domain.StateCollectDuration),
		},
		domain.StateCollectLoungerArea: {
			field:  "rentalVariant",
			prompt: withChoices("Which lounger area?", loungerAreas),
			accept: choice(loungerAreas),
			apply:  func(_ *Engine, s *domain.Session, v string) { s.Fields.RentalVariant = v },
			next:   goTo(domain.StateCollectSlotID),
		},
		domain.StateCollectSlotID: {
			field:  "slotIdentifier",
			prompt: slotPrompt,
			accept: textual(func(_ *Engine, s *domain.Session, v string) validate.Result {
				return validate.SlotID(s.Fields.RentalKind, s.Fields.Member(), v)
			}),
			apply: func(_ *Engine, s *domain.Session, v string) { s.Fields.SlotIdentifier = v },
			next:  goTo(domain.StateCollectDuration),
		},
		domain.StateCollectDuration: {
			field:  "duration",
			prompt: withChoices("Rental duration?", durations),
			accept: textual(func(e *Engine, _ *domain.Session, v string) validate.Result {
				return validate.Duration(v, e.catalog.Durations())
			}),
			apply: func(_ *Engine, s *domain.Session, v string) { s.Fields.Duration = v },
			next:  goTo(domain.StateCollectPaymentMethod),
		},
		domain.StateCollectPaymentMethod: {
			field:  "paymentMethod",
			prompt: withChoices("Payment method?", payments),
			accept: choice(payments),
			apply:  func(_ *Engine, s *domain.Session, v string) { s.Fields.PaymentMethod = domain.PaymentMethod(v) },
			next:   goTo(domain.StateCollectAmount),
		},
		domain.StateCollectAmount: {
			field: "amount",
			prompt: func(e *Engine, _ *domain.Fields) (string, []string) {
				return fmt.Sprintf("Amount paid (%s)?", e.catalog.Currency), nil
			},
			accept: textual(func(e *Engine, _ *domain.Session, v string) validate.Result {
				return validate.Amount(v, e.catalog.Currency)
			}),
			apply: func(_ *Engine, s *domain.Session, v string) {
				// The value was rendered by validate.Amount, so it always parses.
				a, _ := domain.ParseAmount(v)
				s.Fields.Amount = &a
			},
			next: goTo(domain.StateOfferPhoto),
		},
		domain.StateOfferPhoto: {
			field:  "receiptPhotoRef",
			prompt: withChoices("Attach a photo of the receipt?", yesOrNo),
			accept: choice(yesOrNo),
			apply:  func(*Engine, *domain.Session, string) {},
			next: func(_ domain.Fields, v string) domain.StateID {
				if v == domain.ChoiceYes {
					return domain.StateAwaitPhoto
				}
				return domain.StateCollectNotes
			},
		},
		domain.StateAwaitPhoto: {
			field:  "receiptPhotoRef",
			prompt: ask("Send the receipt photo now."),
			accept: func(_ *Engine, _ *domain.Session, in domain.Input) validate.Result {
				if in.Kind != domain.InputPhoto || strings.TrimSpace(in.Value) == "" {
					return validate.Rejected("send a photo, or cancel the registration")
				}
				return validate.Accepted(strings.TrimSpace(in.Value))
			},
			apply: func(_ *Engine, s *domain.Session, v string) { s.Fields.ReceiptPhotoRef = v },
			next:  goTo(domain.StateCollectNotes),
		},
		domain.StateCollectNotes: {
			field:  "notes",
			prompt: ask(`Notes? Type "skip" for none.`),
			accept: freeText(validate.Notes),
			apply:  func(_ *Engine, s *domain.Session, v string) { s.Fields.Notes = v },
			next:   goTo(domain.StatePersistRecord),
		},
		domain.StateOfferContinue: {
			prompt: withChoices("Register another rental for this client?", continuation),
			accept: choice(continuation),
			apply: func(_ *Engine, s *domain.Session, v string) {
				if v != domain.ChoiceAddAnother {
					return
				}
				s.Fields.ResetRental()
				if s.Base != nil {
					s.Fields.Restore(*s.Base)
				}
			},
			next: func(_ domain.Fields, v string) domain.StateID {
				if v == domain.ChoiceAddAnother {
					return domain.StateCollectRentalKind
				}
				return domain.StateFinished
			},
		},
	}
}

// applyKind sets the kind and, for kinds without a variant step, the default variant.
func applyKind(e *Engine, s *domain.Session, v string) {
	kind := domain.RentalKind(v)
	s.Fields.RentalKind = kind
	s.Fields.RentalVariant = ""
	s.Fields.SlotIdentifier = ""
	if kind != domain.KindSUP && kind != domain.KindLounger {
		s.Fields.RentalVariant = e.catalog.DefaultVariant
	}
}

func nextAfterKind(f domain.Fields, _ string) domain.StateID {
	switch f.RentalKind {
	case domain.KindSUP:
		return domain.StateCollectSUPVariant
	case domain.KindLounger:
		return domain.StateCollectLoungerArea
	case domain.KindPhoneBag, domain.KindDryBag:
		return domain.StateCollectSlotID
	default:
		return domain.StateCollectDuration
	}
}

func slotPrompt(_ *Engine, f *domain.Fields) (string, []string) {
	if f.RentalKind == domain.KindLounger && f.Member() {
		return "Lounger letter (A-Z)?", nil
	}
	return fmt.Sprintf("%s number (0-99)?", strings.ReplaceAll(strings.ToLower(string(f.RentalKind)), "_", " ")), nil
}
