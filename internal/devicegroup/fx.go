package devicegroup

import (
	"github.com/smallbiznis/printbill/internal/devicegroup/service"
	"go.uber.org/fx"
)

var Module = fx.Module("devicegroup.service",
	fx.Provide(service.New),
)
