package prompt_fx

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"tripcanvas/internal/config"
	"tripcanvas/internal/services"
	"tripcanvas/pkg/utils"
)

var Module = fx.Provide(
	ProvideGenerativeClient,
	ProvideItineraryGenerator)

// ProvideGenerativeClient creates the client selected by GENERATOR_PROVIDER.
func ProvideGenerativeClient(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (utils.GenerativeClient, error) {
	gen := cfg.Generator

	var (
		client utils.GenerativeClient
		err    error
		model  string
	)
	switch gen.Provider {
	case config.GeneratorOpenAI:
		model = gen.OpenAIModel
		client, err = utils.NewOpenAIClient(gen.OpenAIAPIKey, gen.OpenAIModel)
	case config.GeneratorGemini:
		model = gen.GeminiModel
		client, err = utils.NewGeminiClient(context.Background(), gen.GeminiAPIKey, gen.GeminiModel)
	default:
		return nil, fmt.Errorf("unsupported generator provider: %s. Use 'openai' or 'gemini'", gen.Provider)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("generative client ready", zap.String("provider", gen.Provider), zap.String("model", model))
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
	return client, nil
}

func ProvideItineraryGenerator(client utils.GenerativeClient, cfg *config.Config, logger *zap.Logger) services.ItineraryGeneratorInterface {
	return services.NewItineraryGenerator(client, cfg.Generator, logger.Named("generator"))
}
