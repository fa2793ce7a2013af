package catalog_fx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"tripcanvas/internal/config"
	"tripcanvas/internal/infra"
	"tripcanvas/internal/repositories"
	"tripcanvas/internal/services"
)

var Module = fx.Provide(
	OpenPlaceRepository,
	providePlaceImportService)

// OpenPlaceRepository connects to mongo and closes the client on stop.
func OpenPlaceRepository(lc fx.Lifecycle, cfg *config.Config) (repositories.PlaceRepository, error) {
	client, err := infra.InitMongo(context.Background(), cfg.Storage.MongoURI)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Disconnect(ctx)
		},
	})
	return repositories.NewPlaceRepository(client.Database(cfg.Storage.MongoDatabase), cfg.Storage.MongoPlaceCollection), nil
}

func providePlaceImportService(repo repositories.PlaceRepository, logger *zap.Logger) services.PlaceImportServiceInterface {
	return services.NewPlaceImportService(repo, logger.Named("import"))
}
