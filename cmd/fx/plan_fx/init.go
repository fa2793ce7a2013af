package plan_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"tripcanvas/internal/services"
)

var Module = fx.Provide(providePlanService)

func providePlanService(
	generator services.ItineraryGeneratorInterface,
	validator services.ItineraryValidatorInterface,
	logger *zap.Logger,
) services.PlanServiceInterface {
	return services.NewPlanService(generator, validator, logger)
}
