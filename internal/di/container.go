// Package di provides dependency injection configuration for the RunwayLens server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/runwaylens/runwaylens-server/internal/config"
	"github.com/runwaylens/runwaylens-server/internal/di/providers"
	"github.com/runwaylens/runwaylens-server/internal/logger"
	"github.com/runwaylens/runwaylens-server/internal/service"
	"github.com/runwaylens/runwaylens-server/internal/upstream"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Upstream layer
	do.Provide(injector, providers.ProvideUpstreamClient)

	// Business services
	do.Provide(injector, providers.ProvideAnalysisService)

	// Workers
	do.Provide(injector, providers.ProvideRefreshWorker)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*upstream.Client](injector)
	_ = do.MustInvoke[*service.AnalysisService](injector)
	_ = do.MustInvoke[*providers.RefreshWorkerHandle](injector)
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
