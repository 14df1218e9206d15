// Package folder resolves the external storage folder for a runway image
// from its brand and season, via a fetched mapping with a deterministic
// synthesized fallback.
package folder

import (
	"fmt"

	"github.com/runwaylens/runwaylens-server/internal/normalize"
)

// DefaultFolder is the sentinel folder returned when the brand is empty or
// unrecognizable. Lookups against it yield the placeholder glyph client-side
// rather than a broken image per card.
const DefaultFolder = "no-match"

// Mapping maps brand key -> season key -> storage folder segment, as served
// by the folder listing endpoint. Keys are normalized at construction; the
// mapping is lookup-only and never mutated afterwards.
type Mapping map[string]map[string]string

// NewMapping normalizes the keys of a raw brand/season/folder table so that
// the hyphenated season keys the bucket listing produces
// ("fall-winter-2025") and the spaced keys records carry ("Fall-Winter
// 2025") land on the same entry.
func NewMapping(raw map[string]map[string]string) Mapping {
	m := make(Mapping, len(raw))
	for brand, seasons := range raw {
		bk := normalize.Key(brand)
		if bk == "" {
			continue
		}
		entry, ok := m[bk]
		if !ok {
			entry = make(map[string]string, len(seasons))
			m[bk] = entry
		}
		for season, fold := range seasons {
			if sk := normalize.Key(season); sk != "" && fold != "" {
				entry[sk] = fold
			}
		}
	}
	return m
}

// Resolve returns the storage folder segment for (brand, season).
//
// A mapped entry is returned verbatim. Otherwise the folder is synthesized
// as "{slug(brand)}-ready-to-wear-{slug(season)}-paris", matching the
// naming convention of the runway image bucket. An empty brand resolves to
// DefaultFolder. Resolve is pure and total: no lookup failure is an error
// and the result is never empty.
func Resolve(brand, season string, m Mapping) string {
	brandKey := normalize.Key(brand)
	if brandKey == "" {
		return DefaultFolder
	}

	if seasons, ok := m[brandKey]; ok {
		if fold, ok := seasons[normalize.Key(season)]; ok {
			return fold
		}
	}

	brandSlug := normalize.Slug(brand)
	seasonSlug := normalize.Slug(season)
	if seasonSlug == "" {
		return brandSlug + "-ready-to-wear-paris"
	}
	return brandSlug + "-ready-to-wear-" + seasonSlug + "-paris"
}

// ImageURL builds the public URL of a runway image stored in S3.
func ImageURL(bucket, region, folder, imageName string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s/%s", bucket, region, folder, imageName)
}
