package validate

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/rentdesk/pkg/domain"
	"github.com/shopspring/decimal"
)

// DateLayout is the DD/MM/YYYY layout of rental dates.
const DateLayout = "02/01/2006"

// MinDocumentNumberLength is the shortest accepted document number.
const MinDocumentNumberLength = 3

// SkipToken marks "no notes".
const SkipToken = "skip"

// Date accepts a DD/MM/YYYY date whose year is at least minYear and which is
// not later than one year after now. The literal input is kept as the value.
func Date(input string, now time.Time, minYear int) Result {
	s := strings.TrimSpace(input)
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return Rejected("use the DD/MM/YYYY format, e.g. 15/07/2024")
	}
	if d.Year() < minYear {
		return Rejected(fmt.Sprintf("the year must be %d or later", minYear))
	}
	limit := now.AddDate(1, 0, 0)
	limitDay := time.Date(limit.Year(), limit.Month(), limit.Day(), 0, 0, 0, 0, time.UTC)
	if d.After(limitDay) {
		return Rejected("the date is more than one year ahead")
	}
	return Accepted(s)
}

// ParseDate parses a stored DD/MM/YYYY date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}

// Text accepts any non-blank free text, trimmed.
func Text(input string) Result {
	s := strings.TrimSpace(input)
	if s == "" {
		return Rejected("the value must not be empty")
	}
	return Accepted(s)
}

// DocumentNumber accepts a document number of at least three characters.
func DocumentNumber(input string) Result {
	s := strings.TrimSpace(input)
	if len([]rune(s)) < MinDocumentNumberLength {
		return Rejected(fmt.Sprintf("the document number must have at least %d characters", MinDocumentNumberLength))
	}
	return Accepted(s)
}

// SlotID validates a slot identifier against the rental kind and membership
// together. Members renting a lounger get a letter A-Z; every other slotted
// rental gets a number in [0, 99]. Kinds without slots accept nothing.
func SlotID(kind domain.RentalKind, member bool, input string) Result {
	s := strings.TrimSpace(input)
	if !kind.HasSlot() {
		return Rejected(fmt.Sprintf("%s rentals have no slot", kind))
	}
	if kind == domain.KindLounger && member {
		up := strings.ToUpper(s)
		if len(up) != 1 || up[0] < 'A' || up[0] > 'Z' {
			return Rejected("members get a single letter from A to Z")
		}
		return Accepted(up)
	}
	if len(s) == 0 || len(s) > 2 || !isDigits(s) {
		return Rejected("the slot must be a number from 0 to 99")
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return Rejected("the slot must be a number from 0 to 99")
	}
	return Accepted(strconv.Itoa(n))
}

// Pairing re-checks an already stored slot against kind and membership.
// Kinds without slots must carry no slot.
func Pairing(kind domain.RentalKind, member bool, slot string) Result {
	if !kind.HasSlot() {
		if slot != "" {
			return Rejected(fmt.Sprintf("%s rentals have no slot, clear slot %q first", kind, slot))
		}
		return Accepted("")
	}
	return SlotID(kind, member, slot)
}

// Amount accepts a positive decimal using "." or "," as separator and renders
// it as "X.XX CUR". A trailing currency tag or euro sign is tolerated.
func Amount(input, currency string) Result {
	s := strings.TrimSpace(input)
	s = strings.TrimSuffix(s, "€")
	if currency != "" && len(s) > len(currency) && strings.EqualFold(s[len(s)-len(currency):], currency) {
		s = s[:len(s)-len(currency)]
	}
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return Rejected("enter an amount, e.g. 25 or 30,50")
	}
	if strings.ContainsAny(s, "eE") {
		return Rejected("the amount is not a number, e.g. 25 or 30,50")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Rejected("the amount is not a number, e.g. 25 or 30,50")
	}
	if d.Round(2).GreaterThanOrEqual(domain.MaxAmount) {
		return Rejected("the amount must be below " + domain.MaxAmount.String())
	}
	a := domain.NewAmount(d, currency)
	if a.Cents <= 0 {
		return Rejected("the amount must be positive")
	}
	return Accepted(a.String())
}

// Choice accepts a token of the closed set, matched case-insensitively,
// and returns it in canonical form.
func Choice(input string, allowed []string) Result {
	s := strings.TrimSpace(input)
	for _, a := range allowed {
		if strings.EqualFold(s, a) {
			return Accepted(a)
		}
	}
	return Rejected("choose one of: " + strings.Join(allowed, ", "))
}

// Duration is Choice over the catalog durations; "1,5h" is read as "1.5h".
func Duration(input string, allowed []string) Result {
	return Choice(strings.ReplaceAll(input, ",", "."), allowed)
}

// Notes maps the skip token (or blank input) to absence, otherwise trims.
func Notes(input string) Result {
	s := strings.TrimSpace(input)
	if strings.EqualFold(s, SkipToken) {
		return Accepted("")
	}
	return Accepted(s)
}

// Tokens converts typed enumerations to their string tokens.
func Tokens[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
