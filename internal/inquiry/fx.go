package inquiry

import (
	"go.uber.org/fx"

	"github.com/lotkeeper/lotkeeper/internal/inquiry/repository"
	"github.com/lotkeeper/lotkeeper/internal/inquiry/service"
)

var Module = fx.Module("inquiry.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
