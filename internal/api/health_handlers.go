package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/runwaylens/runwaylens-server/internal/domain"
)

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns server health status with component checks",
		Tags:        []string{"Health"},
	}, s.handleHealthCheck)
}

// ComponentHealth describes the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status" doc:"Component status: healthy, degraded, or unhealthy"`
	Message string `json:"message,omitempty" doc:"Additional status information"`
}

// HealthResponse contains health check data in API responses.
type HealthResponse struct {
	Status     string                     `json:"status" doc:"Overall status: healthy, degraded, or unhealthy"`
	Components map[string]ComponentHealth `json:"components" doc:"Individual component statuses"`
}

// HealthOutput wraps the health response for huma.
type HealthOutput struct {
	Body HealthResponse
}

func (s *Server) handleHealthCheck(_ context.Context, _ *struct{}) (*HealthOutput, error) {
	components := make(map[string]ComponentHealth)

	state, count, lastErr := s.analysis.State()

	snapshot := ComponentHealth{Status: "healthy"}
	overall := "healthy"
	switch state {
	case domain.StateLoading:
		snapshot = ComponentHealth{Status: "degraded", Message: "record snapshot loading"}
		overall = "degraded"
	case domain.StateError:
		snapshot = ComponentHealth{Status: "unhealthy", Message: lastErr.Error()}
		overall = "unhealthy"
	case domain.StateSuccess:
		if count == 0 {
			snapshot.Message = "snapshot is empty"
		}
	}
	components["snapshot"] = snapshot

	return &HealthOutput{
		Body: HealthResponse{
			Status:     overall,
			Components: components,
		},
	}, nil
}
