package geo_fx

import (
	"errors"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"tripcanvas/cmd/fx/catalog_fx"
	"tripcanvas/internal/config"
	"tripcanvas/internal/services"
)

var Module = fx.Provide(
	ProvidePlaceSearch,
	ProvideGeoResolver,
	ProvideItineraryValidator)

// ProvidePlaceSearch builds the backend selected by PLACE_SEARCH_PROVIDER. Only
// the catalog backend connects to mongo.
func ProvidePlaceSearch(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (services.PlaceSearchService, error) {
	geo := cfg.Geo

	switch geo.Provider {
	case config.PlaceSearchKakao:
		if geo.KakaoAPIKey == "" {
			return nil, errors.New("KAKAO_API_KEY is required when using the kakao place search provider")
		}
		logger.Info("place search ready", zap.String("provider", geo.Provider), zap.String("base_url", geo.KakaoBaseURL))
		return services.NewKakaoPlaceSearchClient(geo.KakaoBaseURL, geo.KakaoAPIKey, geo.Timeout), nil

	case config.PlaceSearchCatalog:
		repo, err := catalog_fx.OpenPlaceRepository(lc, cfg)
		if err != nil {
			return nil, err
		}
		logger.Info("place search ready",
			zap.String("provider", geo.Provider),
			zap.String("database", cfg.Storage.MongoDatabase),
			zap.String("collection", cfg.Storage.MongoPlaceCollection))
		return services.NewCatalogPlaceSearch(repo), nil

	default:
		return nil, fmt.Errorf("unsupported place search provider: %s", geo.Provider)
	}
}

func ProvideGeoResolver(search services.PlaceSearchService, cfg *config.Config, logger *zap.Logger) services.GeoResolverInterface {
	return services.NewGeoResolver(search, cfg.Geo.Timeout, cfg.Geo.RPS, cfg.Geo.Burst, logger.Named("resolver"))
}

func ProvideItineraryValidator(resolver services.GeoResolverInterface, cfg *config.Config, logger *zap.Logger) services.ItineraryValidatorInterface {
	return services.NewItineraryValidator(
		resolver,
		cfg.Geo.Policy,
		cfg.Geo.MinActivitiesPerDay,
		cfg.Geo.ResolveConcurrency,
		logger.Named("validator"),
	)
}
