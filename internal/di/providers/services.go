package providers

import (
	"github.com/samber/do/v2"

	"github.com/runwaylens/runwaylens-server/internal/config"
	"github.com/runwaylens/runwaylens-server/internal/logger"
	"github.com/runwaylens/runwaylens-server/internal/service"
	"github.com/runwaylens/runwaylens-server/internal/upstream"
)

// ProvideAnalysisService provides the snapshot/aggregation service.
func ProvideAnalysisService(i do.Injector) (*service.AnalysisService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	client := do.MustInvoke[*upstream.Client](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAnalysisService(client, cfg.Assets, log.Logger), nil
}
