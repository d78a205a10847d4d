package email

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/lotkeeper/lotkeeper/internal/config"
)

var Module = fx.Module("providers.email",
	fx.Provide(NewFromConfig),
)

func NewFromConfig(cfg config.Config, log *zap.Logger) Provider {
	if !cfg.Email.Enabled || cfg.Email.SMTPHost == "" {
		log.Named("email").Info("smtp not configured, notifications disabled")
		return &NoOpProvider{}
	}
	p, err := NewSMTP(Config{
		Host:     cfg.Email.SMTPHost,
		Port:     cfg.Email.SMTPPort,
		Username: cfg.Email.SMTPUsername,
		Password: cfg.Email.SMTPPassword,
		From:     cfg.Email.SMTPFrom,
	})
	if err != nil {
		log.Named("email").Warn("smtp provider init failed, notifications disabled", zap.Error(err))
		return &NoOpProvider{}
	}
	return p
}
