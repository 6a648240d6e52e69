package records

import (
	"strings"

	"github.com/aretw0/rentdesk/pkg/domain"
)

// Match is a search hit with its position in the store.
type Match struct {
	Index  int                 `json:"index"`
	Record domain.RentalRecord `json:"record"`
}

type scope int

const (
	allFields scope = iota
	identityFields
)

// SearchIdentity matches only names and phone, as the edit engine does.
func (s *Store) SearchIdentity(query string) []Match {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return search(s.records, query, identityFields)
}

// search returns every record matching query, in insertion order.
//
// A record matches when the lowercased query is a substring of one of the
// searched fields, or, for the full scope, when the query has the form
// "<kind> <slot>" (kind substring, exact slot) or is exactly a slot identifier.
func search(records []domain.RentalRecord, query string, sc scope) []Match {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	tokens := strings.Fields(q)

	var out []Match
	for i, r := range records {
		if matches(r, q, tokens, sc) {
			out = append(out, Match{Index: i, Record: r})
		}
	}
	return out
}

func matches(r domain.RentalRecord, q string, tokens []string, sc scope) bool {
	fields := []string{r.LastName, r.FirstName, r.Phone}
	if sc == allFields {
		fields = append(fields, r.IDDocumentNumber, r.RentalVariant)
		fields = append(fields, kindAliases(r.RentalKind)...)
	}
	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	if sc != allFields || r.SlotIdentifier == "" {
		return false
	}

	slot := strings.ToLower(r.SlotIdentifier)
	switch len(tokens) {
	case 1:
		return tokens[0] == slot
	case 2:
		if tokens[1] != slot {
			return false
		}
		for _, alias := range kindAliases(r.RentalKind) {
			if strings.Contains(alias, tokens[0]) {
				return true
			}
		}
	}
	return false
}

// kindAliases lets PHONE_BAG match "phone_bag", "phone bag" and "phonebag".
func kindAliases(k domain.RentalKind) []string {
	lower := strings.ToLower(string(k))
	if !strings.Contains(lower, "_") {
		return []string{lower}
	}
	return []string{lower, strings.ReplaceAll(lower, "_", " "), strings.ReplaceAll(lower, "_", "")}
}
