package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/printbill/internal/billing"
	"github.com/smallbiznis/printbill/internal/config"
	"github.com/smallbiznis/printbill/internal/contract"
	"github.com/smallbiznis/printbill/internal/customer"
	"github.com/smallbiznis/printbill/internal/devicegroup"
	"github.com/smallbiznis/printbill/internal/logger"
	"github.com/smallbiznis/printbill/internal/meterlog"
	"github.com/smallbiznis/printbill/internal/migration"
	"github.com/smallbiznis/printbill/internal/rating"
	"github.com/smallbiznis/printbill/internal/server"
	"github.com/smallbiznis/printbill/internal/summary"
	"github.com/smallbiznis/printbill/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core Infrastructure
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,

		// Functional Domains
		contract.Module,
		customer.Module,
		devicegroup.Module,
		meterlog.Module,
		rating.Module,
		summary.Module,
		billing.Module,

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
