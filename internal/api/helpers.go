package api

import (
	"github.com/runwaylens/runwaylens-server/internal/domain"
	"github.com/runwaylens/runwaylens-server/internal/filter"
)

// FilterParams are the common filter query parameters shared by every
// record-derived endpoint. Empty parameters impose no constraint.
type FilterParams struct {
	Designer string `query:"designer" doc:"Substring match on designer/brand"`
	Season   string `query:"season" doc:"Season match, separator-insensitive"`
	Color    string `query:"color" doc:"Substring match on color name"`
	Item     string `query:"item" doc:"Substring match on item type"`
	Material string `query:"material" doc:"Substring match on materials"`
}

// Predicates converts the query parameters into filter predicates.
func (p FilterParams) Predicates() filter.Predicates {
	preds := filter.Predicates{}
	if p.Designer != "" {
		preds[domain.FieldDesigner] = p.Designer
	}
	if p.Season != "" {
		preds[domain.FieldSeason] = p.Season
	}
	if p.Color != "" {
		preds[domain.FieldColor] = p.Color
	}
	if p.Item != "" {
		preds[domain.FieldItem] = p.Item
	}
	if p.Material != "" {
		preds[domain.FieldMaterial] = p.Material
	}
	return preds
}

// MessageResponse is a simple message payload.
type MessageResponse struct {
	Message string `json:"message" doc:"Human-readable status message"`
}

// MessageOutput wraps MessageResponse for huma.
type MessageOutput struct {
	Body MessageResponse
}
