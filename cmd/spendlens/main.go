package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/spendlens/spendlens/internal/clock"
	"github.com/spendlens/spendlens/internal/config"
	"github.com/spendlens/spendlens/internal/migration"
	"github.com/spendlens/spendlens/internal/observability/metrics"
	"github.com/spendlens/spendlens/internal/server"
	"github.com/spendlens/spendlens/pkg/db"
	"github.com/spendlens/spendlens/pkg/log"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		log.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		metrics.Module,
		migration.Module,
		server.Module,
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
