package drive

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/lotkeeper/lotkeeper/internal/config"
)

var Module = fx.Module("providers.drive",
	fx.Provide(NewFromConfig),
)

// NewFromConfig returns nil when no API key is set; callers surface
// ErrNotConfigured on use.
func NewFromConfig(cfg config.Config, log *zap.Logger) *Client {
	if cfg.Drive.APIKey == "" {
		log.Named("drive").Info("drive api key not configured, folder scan disabled")
		return nil
	}
	return New(Config{APIKey: cfg.Drive.APIKey})
}
