// Package filter applies user-selected predicates over garment record sets
// and recomputes the still-available filter values (cascading filters).
package filter

import (
	"strings"

	"github.com/runwaylens/runwaylens-server/internal/domain"
	"github.com/runwaylens/runwaylens-server/internal/normalize"
)

// Predicates maps a record field to a substring the field value must
// contain. Predicates compose with logical AND; an absent or empty entry
// imposes no constraint.
type Predicates map[domain.Field]string

// Empty reports whether no predicate imposes any constraint.
func (p Predicates) Empty() bool {
	for _, v := range p {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Apply returns the records matching every predicate, preserving input
// order. Matching is case-insensitive substring containment on the raw
// field value, except for the season field which compares normalized forms
// so that separator variants of the same season match each other.
func Apply(records []domain.GarmentRecord, preds Predicates) []domain.GarmentRecord {
	if preds.Empty() {
		return records
	}

	out := make([]domain.GarmentRecord, 0, len(records))
	for _, r := range records {
		if matches(r, preds) {
			out = append(out, r)
		}
	}
	return out
}

// AvailableValues returns the distinct display values of field over the
// given records, deduplicated by normalized key, in first-encountered
// order. Callers pass the currently filtered subset so that narrowing one
// filter narrows the option lists for the others.
func AvailableValues(records []domain.GarmentRecord, field domain.Field) []string {
	seen := make(map[string]bool)
	values := make([]string, 0)
	for _, r := range records {
		raw := r.Value(field)
		key := normalize.Key(raw)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		if field == domain.FieldSeason {
			values = append(values, normalize.SeasonDisplay(raw))
		} else {
			values = append(values, normalize.Display(raw))
		}
	}
	return values
}

func matches(r domain.GarmentRecord, preds Predicates) bool {
	for field, want := range preds {
		want = strings.TrimSpace(want)
		if want == "" {
			continue
		}
		raw := r.Value(field)
		if field == domain.FieldSeason {
			if !strings.Contains(normalize.Key(raw), normalize.Key(want)) {
				return false
			}
			continue
		}
		if !strings.Contains(strings.ToLower(raw), strings.ToLower(want)) {
			return false
		}
	}
	return true
}
