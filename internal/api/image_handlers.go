package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/runwaylens/runwaylens-server/internal/domain"
)

func (s *Server) registerImageRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listImages",
		Method:      http.MethodGet,
		Path:        "/api/v1/images",
		Summary:     "List runway image cards",
		Description: "Returns one card per runway photo in the filtered set, with resolved URLs and unioned garment tags",
		Tags:        []string{"Images"},
	}, s.handleListImages)
}

// ListImagesInput carries the filter query parameters.
type ListImagesInput struct {
	FilterParams
}

// ListImagesResponse contains image card data in API responses.
type ListImagesResponse struct {
	Images []domain.ImageCard `json:"images" doc:"Runway photo cards"`
	Count  int                `json:"count" doc:"Number of cards"`
}

// ListImagesOutput wraps the image card list for huma.
type ListImagesOutput struct {
	Body ListImagesResponse
}

func (s *Server) handleListImages(_ context.Context, input *ListImagesInput) (*ListImagesOutput, error) {
	images, err := s.analysis.ImageCards(input.Predicates())
	if err != nil {
		return nil, err
	}

	return &ListImagesOutput{
		Body: ListImagesResponse{
			Images: images,
			Count:  len(images),
		},
	}, nil
}
