package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"tripcanvas/internal/config"
	"tripcanvas/internal/models/request_models"
	"tripcanvas/internal/models/response_models"
	"tripcanvas/pkg/utils"
)

type ItineraryGeneratorInterface interface {
	Generate(ctx context.Context, req request_models.ItineraryRequest) (*response_models.Itinerary, error)
}

type ItineraryGenerator struct {
	client      utils.GenerativeClient
	prompts     *PromptBuilder
	schema      config.SchemaVersion
	timeout     time.Duration
	maxAttempts int
	logger      *zap.Logger
}

func NewItineraryGenerator(client utils.GenerativeClient, cfg config.GeneratorConfig, logger *zap.Logger) *ItineraryGenerator {
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	return &ItineraryGenerator{
		client:      client,
		prompts:     NewPromptBuilder(cfg),
		schema:      cfg.Schema,
		timeout:     cfg.Timeout,
		maxAttempts: attempts,
		logger:      logger,
	}
}

// Generate returns a conforming itinerary or an error wrapping
// utils.ErrGenerationFailed (utils.ErrInvalidItineraryRequest for bad input).
func (g *ItineraryGenerator) Generate(ctx context.Context, req request_models.ItineraryRequest) (*response_models.Itinerary, error) {
	window, err := req.Validate()
	if err != nil {
		return nil, err
	}

	base := g.prompts.Build(req, window)
	schema := SchemaFor(g.schema)
	prompt := base

	var lastErr error
	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		if attempt > 1 {
			prompt = g.prompts.Retry(base, lastErr)
		}
		g.logger.Info("generating itinerary",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", g.maxAttempts),
			zap.Int("days", window.Days),
			zap.String("schema", string(g.schema)))

		itinerary, err := g.attempt(ctx, prompt, schema, window.Days)
		if err == nil {
			g.finish(itinerary, req, window)
			return itinerary, nil
		}

		lastErr = err
		g.logger.Warn("itinerary attempt failed", zap.Int("attempt", attempt), zap.Error(err))
		if ctx.Err() != nil {
			break
		}
	}

	if errors.Is(lastErr, utils.ErrGenerationFailed) {
		return nil, lastErr
	}
	return nil, fmt.Errorf("%w: %w", utils.ErrGenerationFailed, lastErr)
}

func (g *ItineraryGenerator) attempt(ctx context.Context, prompt string, schema *utils.Schema, days int) (*response_models.Itinerary, error) {
	callCtx := ctx
	if g.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	raw, err := g.client.GenerateJSON(callCtx, prompt, schema)
	if err != nil {
		return nil, err
	}
	return DecodeItinerary(g.schema, raw, days)
}

// finish fills fields the rich schema leaves to the server.
func (g *ItineraryGenerator) finish(it *response_models.Itinerary, req request_models.ItineraryRequest, window request_models.TripWindow) {
	if it.TripTitle != "" {
		return
	}
	destination := strings.TrimSpace(req.Destination)
	label := window.DurationLabel()
	if it.TripOverview != nil {
		if it.TripOverview.Destination != "" {
			destination = it.TripOverview.Destination
		}
		if it.TripOverview.Days != "" {
			label = it.TripOverview.Days
		}
	}
	it.TripTitle = fmt.Sprintf("%s %s trip plan", destination, label)
}
