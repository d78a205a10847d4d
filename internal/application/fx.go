package application

import (
	"go.uber.org/fx"

	"github.com/lotkeeper/lotkeeper/internal/application/repository"
	"github.com/lotkeeper/lotkeeper/internal/application/service"
)

var Module = fx.Module("application.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
