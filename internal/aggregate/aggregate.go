// Package aggregate groups garment records by one attribute and ranks the
// resulting frequency distribution.
package aggregate

import (
	"sort"

	"github.com/runwaylens/runwaylens-server/internal/domain"
	"github.com/runwaylens/runwaylens-server/internal/normalize"
)

// TopN is the number of ranked buckets a distribution is truncated to.
// Buckets beyond it are dropped entirely, never merged into an "other" row.
const TopN = 10

// GrayHex is the neutral sentinel attached to color buckets whose records
// carry no hex value.
const GrayHex = "#808080"

// Aggregate groups records by the display form of field, counts occurrences
// per group, sorts descending by count (ties keep first-encountered order)
// and truncates to the top TopN buckets.
//
// For the color field each bucket carries the hex of the first record whose
// display name matches the bucket name, defaulting to GrayHex. The bucket
// set partitions the input exactly before truncation; an empty input yields
// an empty (non-nil) slice.
func Aggregate(records []domain.GarmentRecord, field domain.Field) []domain.DistributionBucket {
	counts := make(map[string]int)
	hexes := make(map[string]string)
	order := make([]string, 0)

	for _, r := range records {
		raw := r.Value(field)
		name := displayName(raw, field)
		if name == "" {
			name = "Unknown"
		}
		if _, seen := counts[name]; !seen {
			order = append(order, name)
		}
		counts[name]++

		if field == domain.FieldColor {
			if _, ok := hexes[name]; !ok && r.ColorHex != "" {
				hexes[name] = r.ColorHex
			}
		}
	}

	buckets := make([]domain.DistributionBucket, 0, len(order))
	for _, name := range order {
		b := domain.DistributionBucket{Name: name, Value: counts[name]}
		if field == domain.FieldColor {
			b.Color = hexes[name]
			if b.Color == "" {
				b.Color = GrayHex
			}
		}
		buckets = append(buckets, b)
	}

	// Stable keeps first-encountered order among equal counts, which makes
	// the ranking deterministic for identical inputs.
	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].Value > buckets[j].Value
	})

	if len(buckets) > TopN {
		buckets = buckets[:TopN]
	}
	return buckets
}

func displayName(raw string, field domain.Field) string {
	if field == domain.FieldSeason {
		return normalize.SeasonDisplay(raw)
	}
	return normalize.Display(raw)
}
