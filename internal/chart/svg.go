package chart

import (
	"fmt"
	"html"
	"strings"
)

// RenderSVG renders slices as a standalone SVG document. Each wedge carries
// a <title> child (the SVG-native hover tooltip) plus data attributes so a
// client overlay can anchor its own tooltip at pointer coordinates relative
// to the chart's bounding box. An empty slice list renders the explicit
// "No data" state.
func RenderSVG(slices []Slice, size float64) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f" role="img">`,
		size, size, size, size)
	b.WriteString("\n")

	if len(slices) == 0 {
		fmt.Fprintf(&b,
			`  <text x="%.1f" y="%.1f" text-anchor="middle" dominant-baseline="middle" fill="#666" font-size="%.0f">No data</text>`,
			size/2, size/2, size/16)
		b.WriteString("\n</svg>\n")
		return []byte(b.String())
	}

	for _, s := range slices {
		name := html.EscapeString(s.Bucket.Name)
		fmt.Fprintf(&b,
			`  <path d="%s" fill="%s" stroke="#fff" stroke-width="1" data-name="%s" data-count="%d" data-percent="%.1f">`,
			s.Path, html.EscapeString(s.Fill), name, s.Bucket.Value, s.Percent)
		fmt.Fprintf(&b, `<title>%s: %d (%.1f%%)</title></path>`, name, s.Bucket.Value, s.Percent)
		b.WriteString("\n")
	}

	b.WriteString("</svg>\n")
	return []byte(b.String())
}
