package main

import (
	"os"
	"strconv"

	"github.com/bwmarrin/snowflake"
	"github.com/propfolio/propfolio/internal/clock"
	"github.com/propfolio/propfolio/internal/config"
	"github.com/propfolio/propfolio/internal/migration"
	"github.com/propfolio/propfolio/internal/observability"
	"github.com/propfolio/propfolio/internal/server"
	"github.com/propfolio/propfolio/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(newSnowflakeNode),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func newSnowflakeNode() (*snowflake.Node, error) {
	nodeID := int64(1)
	if raw := os.Getenv("SNOWFLAKE_NODE_ID"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil {
			nodeID = parsed
		}
	}
	return snowflake.NewNode(nodeID)
}
