package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/lotkeeper/lotkeeper/internal/clock"
	"github.com/lotkeeper/lotkeeper/internal/config"
	"github.com/lotkeeper/lotkeeper/internal/logger"
	"github.com/lotkeeper/lotkeeper/internal/migration"
	obsmetrics "github.com/lotkeeper/lotkeeper/internal/observability/metrics"
	"github.com/lotkeeper/lotkeeper/internal/scheduler"
	"github.com/lotkeeper/lotkeeper/internal/server"
	"github.com/lotkeeper/lotkeeper/pkg/db"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		obsmetrics.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		server.Module,
		scheduler.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
