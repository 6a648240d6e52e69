// Package catalog provides the enumeration profiles that drive the dialogue.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/rentdesk/pkg/domain"
	"gopkg.in/yaml.v3"
)

// DefaultProfile is used when no profile is configured.
const DefaultProfile = "standard"

var supVariants = []string{
	"All-around", "Touring", "Race", "Surf", "Yoga",
	"Whitewater", "Windsurf", "Foil", "Multi", "Fishing",
}

var profiles = map[string]domain.Catalog{
	"standard": {
		Profile:          "standard",
		SUPVariants:      supVariants,
		LoungerAreas:     []string{"Pineta", "Squero"},
		DefaultVariant:   "Standard",
		MaxDurationHours: 8,
		Currency:         "EUR",
		MinYear:          2020,
	},
	"extended": {
		Profile:          "extended",
		SUPVariants:      supVariants,
		LoungerAreas:     []string{"Pineta", "Squero"},
		DefaultVariant:   "Standard",
		MaxDurationHours: 12,
		Currency:         "EUR",
		MinYear:          2020,
	},
}

// Profiles returns the names of the built-in profiles.
func Profiles() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Builtin returns a copy of a built-in profile.
func Builtin(name string) (domain.Catalog, error) {
	if name == "" {
		name = DefaultProfile
	}
	c, ok := profiles[name]
	if !ok {
		return domain.Catalog{}, fmt.Errorf("unknown catalog profile %q (available: %s)", name, strings.Join(Profiles(), ", "))
	}
	c.SUPVariants = append([]string(nil), c.SUPVariants...)
	c.LoungerAreas = append([]string(nil), c.LoungerAreas...)
	return c, nil
}

// Load reads a catalog file (YAML or JSON). Fields absent from the file are
// taken from the profile named in the file, or from the default profile.
func Load(path string) (domain.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("failed to read catalog: %w", err)
	}

	var file domain.Catalog
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &file); err != nil {
			return domain.Catalog{}, fmt.Errorf("failed to parse catalog json: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &file); err != nil {
			return domain.Catalog{}, fmt.Errorf("failed to parse catalog yaml: %w", err)
		}
	}

	base, err := Builtin(file.Profile)
	if err != nil {
		return domain.Catalog{}, err
	}
	merged := merge(base, file)
	if err := merged.Validate(); err != nil {
		return domain.Catalog{}, fmt.Errorf("invalid catalog %s: %w", path, err)
	}
	return merged, nil
}

// Resolve picks the catalog from a file when given, otherwise from a built-in profile.
func Resolve(profile, file string) (domain.Catalog, error) {
	if file != "" {
		return Load(file)
	}
	return Builtin(profile)
}

func merge(base, over domain.Catalog) domain.Catalog {
	if len(over.SUPVariants) > 0 {
		base.SUPVariants = over.SUPVariants
	}
	if len(over.LoungerAreas) > 0 {
		base.LoungerAreas = over.LoungerAreas
	}
	if over.DefaultVariant != "" {
		base.DefaultVariant = over.DefaultVariant
	}
	if over.MaxDurationHours != 0 {
		base.MaxDurationHours = over.MaxDurationHours
	}
	if over.Currency != "" {
		base.Currency = over.Currency
	}
	if over.MinYear != 0 {
		base.MinYear = over.MinYear
	}
	return base
}
