package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/runwaylens/runwaylens-server/internal/domain"
)

func (s *Server) registerDatasetRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listDatasets",
		Method:      http.MethodGet,
		Path:        "/api/v1/datasets",
		Summary:     "List datasets",
		Description: "Returns the designer/season collections present in the snapshot",
		Tags:        []string{"Datasets"},
	}, s.handleListDatasets)
}

// ListDatasetsResponse contains dataset data in API responses.
type ListDatasetsResponse struct {
	Datasets []domain.Dataset `json:"datasets" doc:"Designer/season collections"`
	Count    int              `json:"count" doc:"Number of datasets"`
}

// ListDatasetsOutput wraps the dataset list for huma.
type ListDatasetsOutput struct {
	Body ListDatasetsResponse
}

func (s *Server) handleListDatasets(_ context.Context, _ *struct{}) (*ListDatasetsOutput, error) {
	datasets, err := s.analysis.Datasets()
	if err != nil {
		return nil, err
	}

	return &ListDatasetsOutput{
		Body: ListDatasetsResponse{
			Datasets: datasets,
			Count:    len(datasets),
		},
	}, nil
}
