package providers

import (
	"context"
	"time"

	"github.com/samber/do/v2"

	"github.com/runwaylens/runwaylens-server/internal/config"
	"github.com/runwaylens/runwaylens-server/internal/logger"
	"github.com/runwaylens/runwaylens-server/internal/service"
)

// RefreshWorkerHandle wraps the periodic snapshot refresher with shutdown
// capability.
type RefreshWorkerHandle struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Shutdown implements do.Shutdownable.
func (h *RefreshWorkerHandle) Shutdown() error {
	h.cancel()
	select {
	case <-h.done:
	case <-time.After(shutdownTimeout):
	}
	return nil
}

// ProvideRefreshWorker provides the background job that keeps the record
// snapshot current. It performs the initial fetch immediately and then
// refreshes on the configured interval.
func ProvideRefreshWorker(i do.Injector) (*RefreshWorkerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	analysisService := do.MustInvoke[*service.AnalysisService](i)
	log := do.MustInvoke[*logger.Logger](i)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	interval := cfg.Upstream.RefreshInterval

	go func() {
		defer close(done)

		if err := analysisService.Refresh(ctx); err != nil {
			log.Error("initial snapshot fetch failed", "error", err)
		}

		// Interval zero means the initial fetch only; refreshes then come
		// from the API endpoint.
		if interval <= 0 {
			return
		}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := analysisService.Refresh(ctx); err != nil {
					log.Warn("periodic snapshot refresh failed", "error", err)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	if interval > 0 {
		log.Info("Snapshot refresh worker started", "interval", interval)
	} else {
		log.Info("Periodic snapshot refresh disabled")
	}

	return &RefreshWorkerHandle{cancel: cancel, done: done}, nil
}
