// Package chart converts ranked distribution buckets into radial chart
// geometry: slice angles, SVG arc paths, colors and legend rows.
package chart

import (
	"fmt"
	"math"

	"github.com/runwaylens/runwaylens-server/internal/domain"
)

// palette is the fixed fill cycle for slices whose bucket carries no color
// of its own. Cycling by slice index keeps fills stable across re-renders
// for the same bucket ordering.
//
//nolint:gochecknoglobals // Static lookup table
var palette = [10]string{
	"#4E79A7", "#F28E2B", "#E15759", "#76B7B2", "#59A14F",
	"#EDC948", "#B07AA1", "#FF9DA7", "#9C755F", "#BAB0AC",
}

// fullCircleEpsilon guards the degenerate single-bucket case: a span this
// close to 360 degrees would collapse the arc endpoints onto each other.
const fullCircleEpsilon = 1e-9

// Slice is one wedge of a radial chart, purely derived from its bucket and
// regenerated on every layout pass.
type Slice struct {
	Bucket     domain.DistributionBucket
	StartAngle float64 // degrees clockwise from 12 o'clock
	EndAngle   float64
	Percent    float64 // share of the total, 0-100
	Path       string  // SVG path data
	Fill       string  // hex fill color
}

// LegendRow is one labeled entry accompanying the chart. The first five
// rows are visible by default; the rest sit behind a "show more" toggle
// which flips visibility without re-deriving the layout.
type LegendRow struct {
	Name    string  `json:"name"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"` // rounded to one decimal place
	Visible bool    `json:"visible"`
}

// visibleLegendRows is how many legend rows show before the toggle.
const visibleLegendRows = 5

// Layout lays out buckets as pie slices of a size×size chart, in input
// order (the aggregator already rank-sorted them), starting at 12 o'clock
// and proceeding clockwise. A zero total produces zero slices; the caller
// renders the explicit "No data" state.
func Layout(buckets []domain.DistributionBucket, size float64) []Slice {
	total := 0
	for _, b := range buckets {
		total += b.Value
	}

	slices := make([]Slice, 0, len(buckets))
	if total == 0 {
		return slices
	}

	cx := size / 2
	cy := size / 2
	r := size / 2

	cumulative := 0.0
	for i, b := range buckets {
		pct := float64(b.Value) / float64(total) * 100
		start := cumulative * 3.6
		end := (cumulative + pct) * 3.6
		cumulative += pct

		fill := b.Color
		if fill == "" {
			fill = palette[i%len(palette)]
		}

		slices = append(slices, Slice{
			Bucket:     b,
			StartAngle: start,
			EndAngle:   end,
			Percent:    pct,
			Path:       arcPath(cx, cy, r, start, end),
			Fill:       fill,
		})
	}
	return slices
}

// Legend builds the labeled rows for buckets: name, raw count and
// percentage to one decimal place.
func Legend(buckets []domain.DistributionBucket) []LegendRow {
	total := 0
	for _, b := range buckets {
		total += b.Value
	}

	rows := make([]LegendRow, 0, len(buckets))
	for i, b := range buckets {
		pct := 0.0
		if total > 0 {
			pct = math.Round(float64(b.Value)/float64(total)*1000) / 10
		}
		rows = append(rows, LegendRow{
			Name:    b.Name,
			Count:   b.Value,
			Percent: pct,
			Visible: i < visibleLegendRows,
		})
	}
	return rows
}

// arcPath builds the SVG path for a wedge between two angles, measured in
// degrees clockwise from the top of the circle.
func arcPath(cx, cy, r, start, end float64) string {
	span := end - start

	// A wedge covering the whole circle has coincident endpoints, which an
	// arc command renders as nothing. Draw it as two half circles instead.
	if span >= 360-fullCircleEpsilon {
		topX, topY := pointOnCircle(cx, cy, r, 0)
		bottomX, bottomY := pointOnCircle(cx, cy, r, 180)
		return fmt.Sprintf("M %s %s A %s %s 0 1 1 %s %s A %s %s 0 1 1 %s %s Z",
			coord(topX), coord(topY),
			coord(r), coord(r), coord(bottomX), coord(bottomY),
			coord(r), coord(r), coord(topX), coord(topY))
	}

	x1, y1 := pointOnCircle(cx, cy, r, start)
	x2, y2 := pointOnCircle(cx, cy, r, end)

	largeArc := 0
	if span > 180 {
		largeArc = 1
	}

	return fmt.Sprintf("M %s %s L %s %s A %s %s 0 %d 1 %s %s Z",
		coord(cx), coord(cy),
		coord(x1), coord(y1),
		coord(r), coord(r), largeArc,
		coord(x2), coord(y2))
}

// pointOnCircle maps an angle in degrees clockwise from 12 o'clock to SVG
// coordinates (y grows downward).
func pointOnCircle(cx, cy, r, angle float64) (x, y float64) {
	rad := angle * math.Pi / 180
	return cx + r*math.Sin(rad), cy - r*math.Cos(rad)
}

func coord(v float64) string {
	return fmt.Sprintf("%.3f", v)
}
