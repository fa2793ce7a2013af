package controllers_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"tripcanvas/internal/api/controllers"
	"tripcanvas/internal/config"
	"tripcanvas/internal/services"
)

var Module = fx.Options(
	fx.Provide(controllers.NewPlanController),
	fx.Provide(provideAccountController))

func provideAccountController(accountService services.AccountServiceInterface, cfg *config.Config, logger *zap.Logger) *controllers.AccountController {
	return controllers.NewAccountController(accountService, cfg.Auth.CookieName, cfg.Server.GinMode == "release", logger)
}
