package vehicle

import (
	"github.com/lotkeeper/lotkeeper/internal/vehicle/repository"
	"github.com/lotkeeper/lotkeeper/internal/vehicle/service"
	"go.uber.org/fx"
)

var Module = fx.Module("vehicle.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
