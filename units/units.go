package units

import "strings"

// Canonical unit set. Stock for a chemical type is always tracked in exactly
// one of these.
var canonical = []string{"ml", "L", "g", "kg", "gal"}

var canonicalSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(canonical))
	for _, u := range canonical {
		m[u] = struct{}{}
	}
	return m
}()

// aliases maps common spellings to the canonical form. Lookup keys are
// lowercase.
var aliases = map[string]string{
	"ml":         "ml",
	"milliliter": "ml",
	"millilitre": "ml",
	"l":          "L",
	"liter":      "L",
	"litre":      "L",
	"g":          "g",
	"gram":       "g",
	"kg":         "kg",
	"kilogram":   "kg",
	"gal":        "gal",
	"gallon":     "gal",
}

// Normalize resolves a unit spelling to its canonical form. Unknown units are
// returned trimmed but otherwise unchanged so the caller can reject them.
func Normalize(unit string) string {
	u := strings.TrimSpace(unit)
	if _, ok := canonicalSet[u]; ok {
		return u
	}
	if c, ok := aliases[strings.ToLower(u)]; ok {
		return c
	}
	return u
}

// IsCanonical reports whether unit is a member of the canonical set.
func IsCanonical(unit string) bool {
	_, ok := canonicalSet[unit]
	return ok
}

// Canonical returns the allowed unit set in display order.
func Canonical() []string {
	out := make([]string, len(canonical))
	copy(out, canonical)
	return out
}
