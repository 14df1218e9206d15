// Package normalize canonicalizes the free-text fields of garment records.
//
// Upstream scrapers deliver the same value in several spellings
// ("Fall-Winter 2025", "fall_winter_2025", "Fall  Winter   2025"); two raw
// strings belong to the same dataset iff their normalized keys are equal.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	// Matches any non-alphanumeric character.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
	// Matches runs of whitespace.
	whitespaceRuns = regexp.MustCompile(`\s+`)
)

// Key derives the stable comparison key for a raw text field:
// trim, lower-case, treat hyphens and underscores as spaces, collapse
// repeated whitespace. Key is idempotent and never fails; empty or missing
// input yields the empty string.
func Key(raw string) string {
	s := strings.TrimSpace(strings.ToLower(raw))
	if s == "" {
		return ""
	}
	s = strings.NewReplacer("-", " ", "_", " ").Replace(s)
	s = whitespaceRuns.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Display returns the display form of a raw field: the first rune of the
// trimmed input upper-cased, the rest left as-is. Already-capitalized text
// and acronyms pass through unchanged.
func Display(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// SeasonDisplay returns the display form of a season string: the normalized
// key with each word capitalized, "fall_winter_2025" -> "Fall Winter 2025".
// Raw spellings with the same key always render identically.
func SeasonDisplay(raw string) string {
	s := Key(raw)
	if s == "" {
		return ""
	}
	parts := strings.Split(s, " ")
	for i, p := range parts {
		parts[i] = Display(p)
	}
	return strings.Join(parts, " ")
}

// Slug converts a string to a URL-safe slug.
// "Fall-Winter 2025" -> "fall-winter-2025".
// "Comme des Garçons" -> "comme-des-garcons".
func Slug(raw string) string {
	// Decompose accented characters, then drop anything non-ASCII.
	s := norm.NFKD.String(raw)
	s = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)

	s = strings.ToLower(s)
	s = nonAlphanumeric.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
