package images

import (
	"context"

	"github.com/lotkeeper/lotkeeper/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("images",
	fx.Provide(func(cfg config.Config) (*Store, error) {
		return NewStore(context.Background(), cfg.Media)
	}),
)
