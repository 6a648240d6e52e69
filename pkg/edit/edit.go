// Package edit implements the Edit Engine: locate a stored rental and
// overwrite one field after re-validating it.
package edit

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/rentdesk/internal/logging"
	"github.com/aretw0/rentdesk/pkg/domain"
	"github.com/aretw0/rentdesk/pkg/records"
	"github.com/aretw0/rentdesk/pkg/validate"
)

// Fields lists the editable field names, in display order.
var Fields = []string{
	"date", "lastName", "firstName", "idDocumentType", "idDocumentNumber", "phone",
	"isMember", "rentalKind", "rentalVariant", "slotIdentifier", "duration",
	"paymentMethod", "amount", "notes",
}

// Change describes an applied edit.
type Change struct {
	Index  int                 `json:"index"`
	Field  string              `json:"field"`
	Old    string              `json:"old"`
	New    string              `json:"new"`
	Record domain.RentalRecord `json:"record"`

	// Also lists fields the edit changed to keep the record consistent.
	Also []FieldChange `json:"also,omitempty"`
}

// FieldChange is the previous and new value of one field.
type FieldChange struct {
	Field string `json:"field"`
	Old   string `json:"old"`
	New   string `json:"new"`
}

// Engine edits records of a store.
type Engine struct {
	store   *records.Store
	catalog domain.Catalog
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithClock overrides time.Now for date validation.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// New creates an edit engine over a store.
func New(store *records.Store, catalog domain.Catalog, opts ...Option) *Engine {
	e := &Engine{
		store:   store,
		catalog: catalog,
		logger:  logging.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// FindCandidates matches the query against names and phone only.
func (e *Engine) FindCandidates(query string) []records.Match {
	return e.store.SearchIdentity(query)
}

// Resolve returns the single candidate for query, or a *domain.LookupError
// when nothing or more than one record matches.
func (e *Engine) Resolve(query string) (records.Match, error) {
	matches := e.FindCandidates(query)
	if len(matches) != 1 {
		return records.Match{}, &domain.LookupError{Query: query, Candidates: len(matches)}
	}
	return matches[0], nil
}

// ApplyFieldEdit validates value with the rule of field and overwrites that
// field only. Rejections are returned as *domain.ValidationError.
func (e *Engine) ApplyFieldEdit(ctx context.Context, index int, field, value string) (Change, error) {
	var change Change
	updated, err := e.store.Update(ctx, index, func(rec *domain.RentalRecord) error {
		if field == "rentalKind" {
			c, err := e.applyKind(rec, value)
			if err != nil {
				return err
			}
			c.Index = index
			change = c
			return nil
		}
		old, err := get(*rec, field)
		if err != nil {
			return err
		}
		res, err := e.check(*rec, field, value)
		if err != nil {
			return err
		}
		if !res.OK() {
			return &domain.ValidationError{Field: field, Reason: res.Reason, Choices: e.choices(*rec, field)}
		}
		if err := set(rec, field, res.Value); err != nil {
			return err
		}
		change = Change{Index: index, Field: field, Old: old, New: res.Value}
		return nil
	})
	if err != nil {
		e.logger.DebugContext(ctx, "edit refused", "record_index", index, "field", field, "err", err)
		return Change{}, err
	}
	change.Record = updated
	e.logger.InfoContext(ctx, "record edited", "record_index", index, "field", field)
	return change, nil
}

// applyKind changes the rental kind and settles the slot in the same edit.
// The value may carry a slot after the kind, e.g. "LOUNGER 5". A kind without
// slots drops the stored slot; a slotted kind keeps it unless a new one is given.
func (e *Engine) applyKind(rec *domain.RentalRecord, value string) (Change, error) {
	reject := func(reason string) error {
		return &domain.ValidationError{Field: "rentalKind", Reason: reason, Choices: validate.Tokens(domain.RentalKinds)}
	}

	token, slot, _ := strings.Cut(strings.TrimSpace(value), " ")
	slot = strings.TrimSpace(slot)
	res := validate.Choice(token, validate.Tokens(domain.RentalKinds))
	if !res.OK() {
		return Change{}, reject(res.Reason)
	}
	kind := domain.RentalKind(res.Value)

	newSlot := ""
	switch {
	case kind.HasSlot():
		newSlot = rec.SlotIdentifier
		if slot != "" {
			newSlot = slot
		}
		if newSlot == "" {
			return Change{}, reject(fmt.Sprintf("%s rentals need a slot, e.g. %q", kind, string(kind)+" 5"))
		}
		pairing := validate.Pairing(kind, rec.IsMember, newSlot)
		if !pairing.OK() {
			return Change{}, reject("slot " + pairing.Reason)
		}
		newSlot = pairing.Value
	case slot != "":
		return Change{}, reject(fmt.Sprintf("%s rentals have no slot", kind))
	}

	change := Change{Field: "rentalKind", Old: string(rec.RentalKind), New: string(kind)}
	if newSlot != rec.SlotIdentifier {
		change.Also = append(change.Also, FieldChange{Field: "slotIdentifier", Old: rec.SlotIdentifier, New: newSlot})
	}
	rec.RentalKind = kind
	rec.SlotIdentifier = newSlot
	return change, nil
}

// check validates value for field against the rest of rec.
func (e *Engine) check(rec domain.RentalRecord, field, value string) (validate.Result, error) {
	switch field {
	case "date":
		return validate.Date(value, e.now(), e.catalog.MinYear), nil
	case "lastName", "firstName", "phone":
		return validate.Text(value), nil
	case "idDocumentType":
		return validate.Choice(value, validate.Tokens(domain.DocumentTypes)), nil
	case "idDocumentNumber":
		return validate.DocumentNumber(value), nil
	case "isMember":
		res := validate.Choice(value, yesNo)
		if !res.OK() {
			return res, nil
		}
		return paired(validate.Pairing(rec.RentalKind, res.Value == domain.ChoiceYes, rec.SlotIdentifier), res), nil
	case "rentalVariant":
		return validate.Choice(value, e.catalog.VariantsFor(rec.RentalKind)), nil
	case "slotIdentifier":
		return validate.Pairing(rec.RentalKind, rec.IsMember, value), nil
	case "duration":
		return validate.Duration(value, e.catalog.Durations()), nil
	case "paymentMethod":
		return validate.Choice(value, validate.Tokens(domain.PaymentMethods)), nil
	case "amount":
		return validate.Amount(value, e.catalog.Currency), nil
	case "notes":
		return validate.Notes(value), nil
	}
	return validate.Result{}, fmt.Errorf("%w: %q", domain.ErrUnknownField, field)
}

func (e *Engine) choices(rec domain.RentalRecord, field string) []string {
	switch field {
	case "idDocumentType":
		return validate.Tokens(domain.DocumentTypes)
	case "isMember":
		return yesNo
	case "rentalKind":
		return validate.Tokens(domain.RentalKinds)
	case "rentalVariant":
		return e.catalog.VariantsFor(rec.RentalKind)
	case "duration":
		return e.catalog.Durations()
	case "paymentMethod":
		return validate.Tokens(domain.PaymentMethods)
	}
	return nil
}

var yesNo = []string{domain.ChoiceYes, domain.ChoiceNo}

// paired keeps the accepted value of res unless the pairing check failed.
func paired(pairing, res validate.Result) validate.Result {
	if !pairing.OK() {
		return validate.Rejected("slot " + pairing.Reason)
	}
	return res
}

func get(rec domain.RentalRecord, field string) (string, error) {
	switch field {
	case "date":
		return rec.Date, nil
	case "lastName":
		return rec.LastName, nil
	case "firstName":
		return rec.FirstName, nil
	case "idDocumentType":
		return string(rec.IDDocumentType), nil
	case "idDocumentNumber":
		return rec.IDDocumentNumber, nil
	case "phone":
		return rec.Phone, nil
	case "isMember":
		if rec.IsMember {
			return domain.ChoiceYes, nil
		}
		return domain.ChoiceNo, nil
	case "rentalKind":
		return string(rec.RentalKind), nil
	case "rentalVariant":
		return rec.RentalVariant, nil
	case "slotIdentifier":
		return rec.SlotIdentifier, nil
	case "duration":
		return rec.Duration, nil
	case "paymentMethod":
		return string(rec.PaymentMethod), nil
	case "amount":
		return rec.Amount.String(), nil
	case "notes":
		return rec.Notes, nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrUnknownField, field)
}

func set(rec *domain.RentalRecord, field, value string) error {
	switch field {
	case "date":
		rec.Date = value
	case "lastName":
		rec.LastName = value
	case "firstName":
		rec.FirstName = value
	case "idDocumentType":
		rec.IDDocumentType = domain.DocumentType(value)
	case "idDocumentNumber":
		rec.IDDocumentNumber = value
	case "phone":
		rec.Phone = value
	case "isMember":
		rec.IsMember = value == domain.ChoiceYes
	case "rentalKind":
		rec.RentalKind = domain.RentalKind(value)
	case "rentalVariant":
		rec.RentalVariant = value
	case "slotIdentifier":
		rec.SlotIdentifier = value
	case "duration":
		rec.Duration = value
	case "paymentMethod":
		rec.PaymentMethod = domain.PaymentMethod(value)
	case "amount":
		a, err := domain.ParseAmount(value)
		if err != nil {
			return fmt.Errorf("amount %q: %w", value, err)
		}
		rec.Amount = a
	case "notes":
		rec.Notes = value
	default:
		return fmt.Errorf("%w: %q", domain.ErrUnknownField, field)
	}
	return nil
}

// ParseIndex parses a record index typed by an operator.
func ParseIndex(s string) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil || i < 0 {
		return 0, fmt.Errorf("invalid record index %q", s)
	}
	return i, nil
}
