package main

import (
	"github.com/anoralabs/storefront/internal/config"
	"github.com/anoralabs/storefront/internal/migration"
	"github.com/anoralabs/storefront/internal/observability"
	"github.com/anoralabs/storefront/internal/server"
	"github.com/anoralabs/storefront/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,

		// Schema and seed data come up before routes are served.
		migration.Module,

		// HTTP surface plus all storefront domains
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
