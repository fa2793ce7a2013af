package services

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"tripcanvas/internal/models/request_models"
	"tripcanvas/internal/models/response_models"
)

type PlanServiceInterface interface {
	GeneratePlan(ctx context.Context, req request_models.ItineraryRequest) (*response_models.PlanResult, error)
}

type PlanService struct {
	generator ItineraryGeneratorInterface
	validator ItineraryValidatorInterface
	logger    *zap.Logger
}

func NewPlanService(
	generator ItineraryGeneratorInterface,
	validator ItineraryValidatorInterface,
	logger *zap.Logger,
) PlanServiceInterface {
	return &PlanService{
		generator: generator,
		validator: validator,
		logger:    logger,
	}
}

// GeneratePlan runs generation then validation once. An itinerary with no
// surviving days is a valid result.
func (p *PlanService) GeneratePlan(ctx context.Context, req request_models.ItineraryRequest) (*response_models.PlanResult, error) {
	startTime := time.Now()

	itinerary, err := p.generator.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	generatedDays := len(itinerary.Days)
	p.logger.Info("itinerary generated",
		zap.String("title", itinerary.TripTitle),
		zap.Int("days", generatedDays),
		zap.Int("places", itinerary.PlaceCount()),
		zap.Duration("took", time.Since(startTime)))

	report := p.validator.Validate(ctx, itinerary)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.logger.Info("itinerary validated",
		zap.String("title", itinerary.TripTitle),
		zap.String("policy", report.Policy),
		zap.Int("generated_days", generatedDays),
		zap.Int("surviving_days", len(itinerary.Days)),
		zap.Int("resolved_places", report.ResolvedPlaces),
		zap.Int("failed_places", report.FailedPlaces),
		zap.Duration("took", time.Since(startTime)))

	if ce := p.logger.Check(zap.DebugLevel, "final itinerary"); ce != nil {
		if raw, err := json.Marshal(itinerary); err == nil {
			ce.Write(zap.ByteString("itinerary", raw))
		}
	}

	return &response_models.PlanResult{Itinerary: itinerary, Report: report}, nil
}
