package config_fx

import (
	"go.uber.org/fx"

	"tripcanvas/internal/config"
)

var Module = fx.Provide(config.Load)
