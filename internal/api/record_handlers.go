package api

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/runwaylens/runwaylens-server/internal/service"
)

func (s *Server) registerRecordRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listRecords",
		Method:      http.MethodGet,
		Path:        "/api/v1/records",
		Summary:     "List garment records",
		Description: "Returns the filtered garment records with resolved image URLs",
		Tags:        []string{"Records"},
	}, s.handleListRecords)

	huma.Register(s.api, huma.Operation{
		OperationID: "refreshSnapshot",
		Method:      http.MethodPost,
		Path:        "/api/v1/refresh",
		Summary:     "Refresh the record snapshot",
		Description: "Re-fetches records and the folder mapping from upstream",
		Tags:        []string{"Records"},
		Middlewares: huma.Middlewares{s.refreshRateLimit},
	}, s.handleRefresh)
}

// ListRecordsInput carries the filter query parameters.
type ListRecordsInput struct {
	FilterParams
}

// ListRecordsResponse contains record list data in API responses.
type ListRecordsResponse struct {
	Records []service.RecordView `json:"records" doc:"Matching garment records"`
	Count   int                  `json:"count" doc:"Number of matching records"`
}

// ListRecordsOutput wraps the record list for huma.
type ListRecordsOutput struct {
	Body ListRecordsResponse
}

func (s *Server) handleListRecords(_ context.Context, input *ListRecordsInput) (*ListRecordsOutput, error) {
	records, err := s.analysis.Records(input.Predicates())
	if err != nil {
		return nil, err
	}

	return &ListRecordsOutput{
		Body: ListRecordsResponse{
			Records: records,
			Count:   len(records),
		},
	}, nil
}

// refreshRateLimit rejects refresh calls that exceed the per-caller budget.
func (s *Server) refreshRateLimit(ctx huma.Context, next func(huma.Context)) {
	addr := ctx.RemoteAddr()
	if host, _, err := net.SplitHostPort(addr); err == nil {
		addr = host
	}
	if !s.refreshLimiter.Allow(addr) {
		s.logger.Warn("refresh rate limit exceeded", "addr", addr)
		_ = huma.WriteErr(s.api, ctx, http.StatusTooManyRequests, "refresh rate limit exceeded")
		return
	}
	next(ctx)
}

func (s *Server) handleRefresh(ctx context.Context, _ *struct{}) (*MessageOutput, error) {
	if err := s.analysis.Refresh(ctx); err != nil {
		return nil, err
	}

	_, count, _ := s.analysis.State()
	s.logger.Info("snapshot refreshed via API", "records", count)

	return &MessageOutput{
		Body: MessageResponse{
			Message: fmt.Sprintf("snapshot refreshed, %d records loaded", count),
		},
	}, nil
}
