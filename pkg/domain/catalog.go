package domain

import (
	"errors"
	"fmt"
	"strconv"
)

// Catalog holds the enumerations that vary between deployments.
type Catalog struct {
	Profile          string   `json:"profile" yaml:"profile"`
	SUPVariants      []string `json:"sup_variants" yaml:"sup_variants"`
	LoungerAreas     []string `json:"lounger_areas" yaml:"lounger_areas"`
	DefaultVariant   string   `json:"default_variant" yaml:"default_variant"`
	MaxDurationHours int      `json:"max_duration_hours" yaml:"max_duration_hours"`
	Currency         string   `json:"currency" yaml:"currency"`
	MinYear          int      `json:"min_year" yaml:"min_year"`
}

// Durations returns the duration tokens from 1h up to the ceiling in half-hour steps.
func (c Catalog) Durations() []string {
	if c.MaxDurationHours < 1 {
		return nil
	}
	out := make([]string, 0, 2*c.MaxDurationHours-1)
	for h := 1; h <= c.MaxDurationHours; h++ {
		out = append(out, strconv.Itoa(h)+"h")
		if h < c.MaxDurationHours {
			out = append(out, strconv.Itoa(h)+".5h")
		}
	}
	return out
}

// VariantsFor returns the selectable variants for a kind.
// Kinds without a variant step get the default variant only.
func (c Catalog) VariantsFor(kind RentalKind) []string {
	switch kind {
	case KindSUP:
		return c.SUPVariants
	case KindLounger:
		return c.LoungerAreas
	default:
		return []string{c.DefaultVariant}
	}
}

// Validate checks that the catalog can drive a dialogue.
func (c Catalog) Validate() error {
	var errs []error
	if len(c.SUPVariants) == 0 {
		errs = append(errs, errors.New("sup_variants must not be empty"))
	}
	if len(c.LoungerAreas) == 0 {
		errs = append(errs, errors.New("lounger_areas must not be empty"))
	}
	if c.DefaultVariant == "" {
		errs = append(errs, errors.New("default_variant is required"))
	}
	if c.MaxDurationHours < 1 || c.MaxDurationHours > 24 {
		errs = append(errs, fmt.Errorf("max_duration_hours must be in [1, 24], got %d", c.MaxDurationHours))
	}
	if c.Currency == "" {
		errs = append(errs, errors.New("currency is required"))
	}
	if c.MinYear < 1900 {
		errs = append(errs, fmt.Errorf("min_year must be >= 1900, got %d", c.MinYear))
	}
	return errors.Join(errs...)
}
