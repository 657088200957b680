package summary

import (
	"github.com/smallbiznis/printbill/internal/summary/repository"
	"github.com/smallbiznis/printbill/internal/summary/service"
	"go.uber.org/fx"
)

var Module = fx.Module("summary.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
