package history

import (
	"github.com/lotkeeper/lotkeeper/internal/config"
	"github.com/lotkeeper/lotkeeper/internal/history/providers"
	"github.com/lotkeeper/lotkeeper/internal/history/providers/autocheck"
	"github.com/lotkeeper/lotkeeper/internal/history/providers/carfax"
	"github.com/lotkeeper/lotkeeper/internal/history/service"
	"go.uber.org/fx"
)

var Module = fx.Module("history.service",
	fx.Provide(NewRegistry),
	fx.Provide(service.New),
)

// NewRegistry wires the fixed provider order: CARFAX first, AutoCheck second.
func NewRegistry(cfg config.Config) *providers.Registry {
	return providers.NewRegistry(
		carfax.New(cfg.History.CarfaxBaseURL, cfg.History.CarfaxAPIKey),
		autocheck.New(cfg.History.AutocheckBaseURL, cfg.History.AutocheckAPIKey),
	)
}
