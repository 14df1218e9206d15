package providers

import (
	"github.com/samber/do/v2"

	"github.com/runwaylens/runwaylens-server/internal/config"
	"github.com/runwaylens/runwaylens-server/internal/logger"
	"github.com/runwaylens/runwaylens-server/internal/upstream"
)

// ProvideUpstreamClient provides the client for the analysis and folder-map endpoints.
func ProvideUpstreamClient(i do.Injector) (*upstream.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return upstream.NewClient(cfg.Upstream, log.Logger), nil
}
