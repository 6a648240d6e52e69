// Package legacy converts the JSON file written by the first version of the
// rental bot (Italian field names, free-form enums) into rental records.
package legacy

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aretw0/rentdesk/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// legacyRecord mirrors one entry of the old noleggi.json file.
type legacyRecord struct {
	Date           string `mapstructure:"data"`
	LastName       string `mapstructure:"cognome"`
	FirstName      string `mapstructure:"nome"`
	Document       string `mapstructure:"documento"`
	DocumentNumber string `mapstructure:"numero_documento"`
	Phone          string `mapstructure:"telefono"`
	Member         string `mapstructure:"associato"`
	Kind           string `mapstructure:"tipo_noleggio"`
	Details        string `mapstructure:"dettagli"`
	Slot           string `mapstructure:"numero"`
	Duration       string `mapstructure:"tempo"`
	Payment        string `mapstructure:"pagamento"`
	Receipt        string `mapstructure:"foto_ricevuta"`
	Timestamp      string `mapstructure:"timestamp"`
}

// Skipped reports an entry that could not be converted.
type Skipped struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// Result is the outcome of an import.
type Result struct {
	Records []domain.RentalRecord `json:"records"`
	Skipped []Skipped             `json:"skipped,omitempty"`
}

// Importer converts legacy files.
type Importer struct {
	loc            *time.Location
	defaultVariant string
}

// Option configures an Importer.
type Option func(*Importer)

// WithLocation sets the zone of the naive legacy timestamps (default UTC).
func WithLocation(loc *time.Location) Option {
	return func(i *Importer) {
		if loc != nil {
			i.loc = loc
		}
	}
}

// WithDefaultVariant sets the variant used when an entry has no details.
func WithDefaultVariant(v string) Option {
	return func(i *Importer) {
		if v != "" {
			i.defaultVariant = v
		}
	}
}

// NewImporter creates an importer.
func NewImporter(opts ...Option) *Importer {
	i := &Importer{loc: time.UTC, defaultVariant: "Standard"}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Import reads a legacy JSON array. Entries that cannot be converted are
// reported in Skipped; the others keep their file order. Amounts are absent
// in legacy data and stay zero.
func (i *Importer) Import(r io.Reader) (Result, error) {
	var raw []map[string]any
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return Result{}, fmt.Errorf("failed to parse legacy file: %w", err)
	}

	var res Result
	for idx, entry := range raw {
		rec, err := i.convert(entry)
		if err != nil {
			res.Skipped = append(res.Skipped, Skipped{Index: idx, Reason: err.Error()})
			continue
		}
		res.Records = append(res.Records, rec)
	}
	return res, nil
}

func (i *Importer) convert(entry map[string]any) (domain.RentalRecord, error) {
	var lr legacyRecord
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ZeroFields:       true,
		Result:           &lr,
	})
	if err != nil {
		return domain.RentalRecord{}, err
	}
	if err := dec.Decode(entry); err != nil {
		return domain.RentalRecord{}, fmt.Errorf("malformed entry: %w", err)
	}

	kind, err := rentalKind(lr.Kind)
	if err != nil {
		return domain.RentalRecord{}, err
	}
	payment, err := paymentMethod(lr.Payment)
	if err != nil {
		return domain.RentalRecord{}, err
	}
	if strings.TrimSpace(lr.Date) == "" || strings.TrimSpace(lr.LastName) == "" {
		return domain.RentalRecord{}, fmt.Errorf("missing date or last name")
	}

	variant := strings.TrimSpace(lr.Details)
	if variant == "" {
		variant = i.defaultVariant
	}

	return domain.RentalRecord{
		Date:             strings.TrimSpace(lr.Date),
		LastName:         strings.TrimSpace(lr.LastName),
		FirstName:        strings.TrimSpace(lr.FirstName),
		IDDocumentType:   documentType(lr.Document),
		IDDocumentNumber: strings.TrimSpace(lr.DocumentNumber),
		Phone:            strings.TrimSpace(lr.Phone),
		IsMember:         member(lr.Member),
		RentalKind:       kind,
		RentalVariant:    variant,
		SlotIdentifier:   strings.ToUpper(strings.TrimSpace(lr.Slot)),
		Duration:         strings.ReplaceAll(strings.TrimSpace(lr.Duration), ",", "."),
		PaymentMethod:    payment,
		ReceiptPhotoRef:  strings.TrimSpace(lr.Receipt),
		CreatedAt:        i.timestamp(lr.Timestamp),
	}, nil
}

var timestampLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	time.RFC3339Nano,
}

func (i *Importer) timestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, i.loc); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func documentType(s string) domain.DocumentType {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "C.I.", "CI", "C.I", "ID_CARD":
		return domain.DocIDCard
	case "PAT", "PATENTE", "DRIVERS_LICENSE":
		return domain.DocDriversLicense
	case "PASS", "PASSAPORTO", "PASSPORT":
		return domain.DocPassport
	default:
		return domain.DocOther
	}
}

func member(s string) bool {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "SÌ", "SI", "SÍ", "YES", "TRUE", "1":
		return true
	}
	return false
}

func rentalKind(s string) (domain.RentalKind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "SUP":
		return domain.KindSUP, nil
	case "KAYAK":
		return domain.KindKayak, nil
	case "LETTINO", "LOUNGER":
		return domain.KindLounger, nil
	case "PHONEBAG", "PHONE_BAG":
		return domain.KindPhoneBag, nil
	case "DRYBAG", "DRY_BAG":
		return domain.KindDryBag, nil
	}
	return "", fmt.Errorf("unknown rental kind %q", s)
}

func paymentMethod(s string) (domain.PaymentMethod, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CARD", "CARTA":
		return domain.PayCard, nil
	case "BONIFICO", "BANK_TRANSFER":
		return domain.PayBankTransfer, nil
	}
	return "", fmt.Errorf("unknown payment method %q", s)
}
