package sheets

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/lotkeeper/lotkeeper/internal/config"
	"github.com/lotkeeper/lotkeeper/internal/inventory/domain"
)

var Module = fx.Module("providers.sheets",
	fx.Provide(NewFromConfig),
)

// NewFromConfig returns a nil RowSource when no spreadsheet is configured;
// the sync service treats that as "source not configured".
func NewFromConfig(cfg config.Config, log *zap.Logger) domain.RowSource {
	if cfg.Sheets.SpreadsheetID == "" || cfg.Sheets.APIKey == "" {
		log.Named("sheets").Info("spreadsheet not configured, scheduled sync disabled")
		return nil
	}
	return New(Config{
		APIKey:        cfg.Sheets.APIKey,
		SpreadsheetID: cfg.Sheets.SpreadsheetID,
		Range:         cfg.Sheets.Range,
	})
}
