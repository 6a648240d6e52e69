package domain

import (
	"fmt"
	"strings"
	"time"
)

// StateID names a step of the registration dialogue.
type StateID string

const (
	StateCollectDate          StateID = "collect_date"
	StateCollectLastName      StateID = "collect_last_name"
	StateCollectFirstName     StateID = "collect_first_name"
	StateCollectDocType       StateID = "collect_doc_type"
	StateCollectDocNumber     StateID = "collect_doc_number"
	StateCollectPhone         StateID = "collect_phone"
	StateCollectMembership    StateID = "collect_membership"
	StateCollectRentalKind    StateID = "collect_rental_kind"
	StateCollectSUPVariant    StateID = "collect_sup_variant"
	StateCollectLoungerArea   StateID = "collect_lounger_area"
	StateCollectSlotID        StateID = "collect_slot_id"
	StateCollectDuration      StateID = "collect_duration"
	StateCollectPaymentMethod StateID = "collect_payment_method"
	StateCollectAmount        StateID = "collect_amount"
	StateOfferPhoto           StateID = "offer_photo"
	StateAwaitPhoto           StateID = "await_photo"
	StateCollectNotes         StateID = "collect_notes"
	StatePersistRecord        StateID = "persist_record"
	StateOfferContinue        StateID = "offer_continue"

	// Terminal states. A session in one of these is discarded.
	StateFinished  StateID = "finished"
	StateCancelled StateID = "cancelled"
)

// IsTerminal reports whether the dialogue ends in this state.
func (s StateID) IsTerminal() bool {
	return s == StateFinished || s == StateCancelled
}

// Fields is the partially-filled field bag of a dialogue.
// Empty strings and nil pointers mean "not collected yet".
type Fields struct {
	Date             string        `json:"date,omitempty"`
	LastName         string        `json:"lastName,omitempty"`
	FirstName        string        `json:"firstName,omitempty"`
	IDDocumentType   DocumentType  `json:"idDocumentType,omitempty"`
	IDDocumentNumber string        `json:"idDocumentNumber,omitempty"`
	Phone            string        `json:"phone,omitempty"`
	IsMember         *bool         `json:"isMember,omitempty"`
	RentalKind       RentalKind    `json:"rentalKind,omitempty"`
	RentalVariant    string        `json:"rentalVariant,omitempty"`
	SlotIdentifier   string        `json:"slotIdentifier,omitempty"`
	Duration         string        `json:"duration,omitempty"`
	PaymentMethod    PaymentMethod `json:"paymentMethod,omitempty"`
	Amount           *Amount       `json:"amount,omitempty"`
	ReceiptPhotoRef  string        `json:"receiptPhotoRef,omitempty"`
	Notes            string        `json:"notes,omitempty"`
}

// Member returns the membership flag, false when not collected.
func (f Fields) Member() bool {
	return f.IsMember != nil && *f.IsMember
}

// ResetRental clears every rental-specific field, keeping date and identity.
func (f *Fields) ResetRental() {
	f.RentalKind = ""
	f.RentalVariant = ""
	f.SlotIdentifier = ""
	f.Duration = ""
	f.PaymentMethod = ""
	f.Amount = nil
	f.ReceiptPhotoRef = ""
	f.Notes = ""
}

// Restore copies a client identity into the field bag.
func (f *Fields) Restore(id ClientIdentity) {
	member := id.IsMember
	f.LastName = id.LastName
	f.FirstName = id.FirstName
	f.IDDocumentType = id.IDDocumentType
	f.IDDocumentNumber = id.IDDocumentNumber
	f.Phone = id.Phone
	f.IsMember = &member
}

// Materialize checks that every required field has been collected and builds the record.
func (f Fields) Materialize(createdAt time.Time) (RentalRecord, error) {
	var missing []string
	check := func(name string, empty bool) {
		if empty {
			missing = append(missing, name)
		}
	}
	check("date", f.Date == "")
	check("lastName", f.LastName == "")
	check("firstName", f.FirstName == "")
	check("idDocumentType", f.IDDocumentType == "")
	check("idDocumentNumber", f.IDDocumentNumber == "")
	check("phone", f.Phone == "")
	check("isMember", f.IsMember == nil)
	check("rentalKind", f.RentalKind == "")
	check("rentalVariant", f.RentalVariant == "")
	check("slotIdentifier", f.RentalKind.HasSlot() && f.SlotIdentifier == "")
	check("duration", f.Duration == "")
	check("paymentMethod", f.PaymentMethod == "")
	check("amount", f.Amount == nil)
	if len(missing) > 0 {
		return RentalRecord{}, fmt.Errorf("incomplete rental, missing fields: %s", strings.Join(missing, ", "))
	}

	return RentalRecord{
		Date:             f.Date,
		LastName:         f.LastName,
		FirstName:        f.FirstName,
		IDDocumentType:   f.IDDocumentType,
		IDDocumentNumber: f.IDDocumentNumber,
		Phone:            f.Phone,
		IsMember:         *f.IsMember,
		RentalKind:       f.RentalKind,
		RentalVariant:    f.RentalVariant,
		SlotIdentifier:   f.SlotIdentifier,
		Duration:         f.Duration,
		PaymentMethod:    f.PaymentMethod,
		Amount:           *f.Amount,
		ReceiptPhotoRef:  f.ReceiptPhotoRef,
		Notes:            f.Notes,
		CreatedAt:        createdAt,
	}, nil
}

// Session is the per-conversation scratch space of the registration dialogue.
type Session struct {
	// ConversationID identifies the conversation that owns this session.
	ConversationID string `json:"conversation_id"`

	// State is the step awaiting input.
	State StateID `json:"state"`

	// Fields holds the values collected so far.
	Fields Fields `json:"fields"`

	// Base is the identity snapshot taken after the first persisted rental.
	Base *ClientIdentity `json:"base,omitempty"`

	// Persisted holds the record store indexes appended by this session.
	Persisted []int `json:"persisted,omitempty"`

	StartedAt time.Time `json:"started_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Sealed carries the encrypted session when a store middleware seals it
	// at rest. A sealed envelope has no fields of its own.
	Sealed string `json:"sealed,omitempty"`
}

// NewSession creates a session at the initial state.
func NewSession(conversationID string, now time.Time) *Session {
	return &Session{
		ConversationID: conversationID,
		State:          StateCollectDate,
		StartedAt:      now,
		UpdatedAt:      now,
	}
}

// Snapshot returns a deep copy so callers can mutate it without touching the original.
func (s *Session) Snapshot() *Session {
	if s == nil {
		return nil
	}
	out := *s
	if s.Fields.IsMember != nil {
		m := *s.Fields.IsMember
		out.Fields.IsMember = &m
	}
	if s.Fields.Amount != nil {
		a := *s.Fields.Amount
		out.Fields.Amount = &a
	}
	if s.Base != nil {
		b := *s.Base
		out.Base = &b
	}
	if s.Persisted != nil {
		out.Persisted = append([]int(nil), s.Persisted...)
	}
	return &out
}
