package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/runwaylens/runwaylens-server/internal/domain"
)

func (s *Server) registerFilterRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listFilters",
		Method:      http.MethodGet,
		Path:        "/api/v1/filters",
		Summary:     "List available filter values",
		Description: "Returns the distinct values available for each filter field, scoped to the records matching the current filters",
		Tags:        []string{"Filters"},
	}, s.handleListFilters)
}

// ListFiltersInput carries the filter query parameters.
type ListFiltersInput struct {
	FilterParams
}

// ListFiltersResponse contains the selectable values per filter field.
type ListFiltersResponse struct {
	Designers []string `json:"designers" doc:"Designers present in the filtered set"`
	Seasons   []string `json:"seasons" doc:"Seasons present in the filtered set"`
	Colors    []string `json:"colors" doc:"Color names present in the filtered set"`
	Items     []string `json:"items" doc:"Item types present in the filtered set"`
	Materials []string `json:"materials" doc:"Materials present in the filtered set"`
}

// ListFiltersOutput wraps the filter values for huma.
type ListFiltersOutput struct {
	Body ListFiltersResponse
}

func (s *Server) handleListFilters(_ context.Context, input *ListFiltersInput) (*ListFiltersOutput, error) {
	values, err := s.analysis.AvailableFilters(input.Predicates())
	if err != nil {
		return nil, err
	}

	return &ListFiltersOutput{
		Body: ListFiltersResponse{
			Designers: values[domain.FieldDesigner],
			Seasons:   values[domain.FieldSeason],
			Colors:    values[domain.FieldColor],
			Items:     values[domain.FieldItem],
			Materials: values[domain.FieldMaterial],
		},
	}, nil
}
