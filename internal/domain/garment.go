// Package domain contains the core business entities for the RunwayLens analysis pipeline.
package domain

import (
	"slices"
	"time"
)

// GarmentRecord represents one detected clothing item extracted from a
// runway photo, as received from the analysis endpoint. All text fields are
// free-form and case/separator-inconsistent; normalization happens
// downstream, never in place.
type GarmentRecord struct {
	ID                string    `json:"id"`
	ItemName          string    `json:"item_name" validate:"required_without=ColorName"`
	ColorName         string    `json:"color_name" validate:"required_without=ItemName"`
	ColorHex          string    `json:"color_hex,omitempty"`
	Materials         string    `json:"materials,omitempty"`
	Designer          string    `json:"designer"`
	Season            string    `json:"season"`
	Collection        string    `json:"collection,omitempty"`
	OriginalImageName string    `json:"original_image_name,omitempty"`
	CapturedAt        time.Time `json:"captured_at,omitzero"`
}

// Field identifies a filterable/groupable attribute of a GarmentRecord.
type Field string

// Groupable and filterable record attributes.
const (
	FieldDesigner Field = "designer"
	FieldSeason   Field = "season"
	FieldColor    Field = "color"
	FieldItem     Field = "item"
	FieldMaterial Field = "material"
)

// GroupFields are the attributes a distribution can be computed over.
//
//nolint:gochecknoglobals // Static lookup table
var GroupFields = []Field{FieldColor, FieldItem, FieldMaterial}

// FilterFields are the attributes a predicate can be applied to.
//
//nolint:gochecknoglobals // Static lookup table
var FilterFields = []Field{FieldDesigner, FieldSeason, FieldColor, FieldItem, FieldMaterial}

// Valid reports whether f names a known filterable field.
func (f Field) Valid() bool {
	return slices.Contains(FilterFields, f)
}

// Groupable reports whether a distribution can be computed over f.
func (f Field) Groupable() bool {
	return slices.Contains(GroupFields, f)
}

// Value extracts the raw value of field f from r. Unknown fields yield "".
func (r GarmentRecord) Value(f Field) string {
	switch f {
	case FieldDesigner:
		return r.Designer
	case FieldSeason:
		return r.Season
	case FieldColor:
		return r.ColorName
	case FieldItem:
		return r.ItemName
	case FieldMaterial:
		return r.Materials
	}
	return ""
}

// DistributionBucket is an aggregated (name, count) pair for one attribute
// value within a filtered record set. Value is always >= 1. Color carries
// the representative hex for color groupings only.
type DistributionBucket struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Color string `json:"color,omitempty"`
}

// Dataset is the set of garment records sharing a normalized
// (designer, season) pair.
type Dataset struct {
	ID          string `json:"id"`   // slug(designer)-slug(season)
	Name        string `json:"name"` // "Designer — Season"
	Designer    string `json:"designer"`
	Season      string `json:"season"`
	RecordCount int    `json:"record_count"`
}

// ImageCard is one displayed runway photo: all records sharing an
// original_image_name, with their clothing/color/material tags unioned.
type ImageCard struct {
	ImageName string   `json:"image_name"`
	URL       string   `json:"url"`
	Designer  string   `json:"designer"`
	Season    string   `json:"season"`
	Items     []string `json:"items,omitempty"`
	Colors    []string `json:"colors,omitempty"`
	Materials []string `json:"materials,omitempty"`
}

// SnapshotState models the fetch lifecycle of the upstream record set.
// Loading transitions once to Success or Error; Success re-enters itself on
// every refresh.
type SnapshotState string

// Snapshot lifecycle states.
const (
	StateLoading SnapshotState = "loading"
	StateSuccess SnapshotState = "success"
	StateError   SnapshotState = "error"
)
