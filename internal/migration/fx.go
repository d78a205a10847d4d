package migration

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	applicationdomain "github.com/lotkeeper/lotkeeper/internal/application/domain"
	"github.com/lotkeeper/lotkeeper/internal/config"
	inquirydomain "github.com/lotkeeper/lotkeeper/internal/inquiry/domain"
	vehicledomain "github.com/lotkeeper/lotkeeper/internal/vehicle/domain"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		// The versioned SQL migrations target postgres. The sqlite path exists
		// for local experiments and derives the schema from the models.
		if cfg.DBType == "sqlite" {
			return conn.AutoMigrate(
				&vehicledomain.Vehicle{},
				&inquirydomain.Inquiry{},
				&applicationdomain.Application{},
			)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}),
)
