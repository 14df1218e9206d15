package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/runwaylens/runwaylens-server/internal/chart"
	"github.com/runwaylens/runwaylens-server/internal/domain"
	"github.com/runwaylens/runwaylens-server/internal/service"
)

func (s *Server) registerDistributionRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getDistribution",
		Method:      http.MethodGet,
		Path:        "/api/v1/distributions/{field}",
		Summary:     "Get an attribute distribution",
		Description: "Returns the top aggregated buckets and legend rows for a groupable field over the filtered record set",
		Tags:        []string{"Distributions"},
	}, s.handleGetDistribution)

	huma.Register(s.api, huma.Operation{
		OperationID: "getChart",
		Method:      http.MethodGet,
		Path:        "/api/v1/charts/{field}",
		Summary:     "Render a distribution chart",
		Description: "Renders the attribute distribution for the filtered record set as an SVG pie chart",
		Tags:        []string{"Distributions"},
	}, s.handleGetChart)
}

// DistributionInput identifies the grouping field plus filter parameters.
type DistributionInput struct {
	Field string `path:"field" enum:"color,item,material" doc:"Attribute to group records by"`
	FilterParams
}

// DistributionResponse contains distribution data in API responses.
type DistributionResponse struct {
	Field   string                      `json:"field" doc:"Grouping field"`
	Buckets []domain.DistributionBucket `json:"buckets" doc:"Top buckets, largest first"`
	Legend  []chart.LegendRow           `json:"legend" doc:"Legend rows with visibility hints"`
}

// DistributionOutput wraps the distribution response for huma.
type DistributionOutput struct {
	Body DistributionResponse
}

func (s *Server) handleGetDistribution(_ context.Context, input *DistributionInput) (*DistributionOutput, error) {
	buckets, legend, err := s.analysis.Distribution(domain.Field(input.Field), input.Predicates())
	if err != nil {
		return nil, err
	}

	return &DistributionOutput{
		Body: DistributionResponse{
			Field:   input.Field,
			Buckets: buckets,
			Legend:  legend,
		},
	}, nil
}

// ChartInput identifies the chart field, size, and filter parameters.
type ChartInput struct {
	Field string  `path:"field" enum:"color,item,material" doc:"Attribute to group records by"`
	Size  float64 `query:"size" minimum:"0" doc:"Chart edge length in pixels, defaults to 300"`
	FilterParams
}

// ChartOutput carries the rendered SVG document.
type ChartOutput struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}

func (s *Server) handleGetChart(_ context.Context, input *ChartInput) (*ChartOutput, error) {
	size := input.Size
	if size <= 0 {
		size = service.DefaultChartSize
	}

	svg, err := s.analysis.ChartSVG(domain.Field(input.Field), input.Predicates(), size)
	if err != nil {
		return nil, err
	}

	return &ChartOutput{
		ContentType: "image/svg+xml",
		Body:        svg,
	}, nil
}
