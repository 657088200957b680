package meterlog

import (
	"github.com/smallbiznis/printbill/internal/meterlog/repository"
	"github.com/smallbiznis/printbill/internal/meterlog/service"
	"go.uber.org/fx"
)

var Module = fx.Module("meterlog.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
