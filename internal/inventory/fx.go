package inventory

import (
	"go.uber.org/fx"

	"github.com/lotkeeper/lotkeeper/internal/inventory/service"
)

var Module = fx.Module("inventory.service",
	fx.Provide(service.New),
)
