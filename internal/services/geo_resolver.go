package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"tripcanvas/internal/models/response_models"
	"tripcanvas/pkg/utils"
)

// GeoResolverInterface turns a place name into coordinates. Every error wraps
// utils.ErrPlaceNotResolved.
type GeoResolverInterface interface {
	Resolve(ctx context.Context, name string) (response_models.GeoPoint, error)
}

type GeoResolver struct {
	search  PlaceSearchService
	limiter *rate.Limiter
	timeout time.Duration
	logger  *zap.Logger
}

// NewGeoResolver builds a resolver; rps <= 0 disables client-side limiting.
func NewGeoResolver(search PlaceSearchService, timeout time.Duration, rps float64, burst int, logger *zap.Logger) *GeoResolver {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	if burst < 1 {
		burst = 1
	}
	return &GeoResolver{
		search:  search,
		limiter: rate.NewLimiter(limit, burst),
		timeout: timeout,
		logger:  logger,
	}
}

func (r *GeoResolver) Resolve(ctx context.Context, name string) (response_models.GeoPoint, error) {
	query := strings.TrimSpace(name)
	if query == "" {
		return response_models.GeoPoint{}, fmt.Errorf("%w: empty place name", utils.ErrPlaceNotResolved)
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	if err := r.limiter.Wait(ctx); err != nil {
		return response_models.GeoPoint{}, fmt.Errorf("%w: %q: rate limit: %w", utils.ErrPlaceNotResolved, query, err)
	}

	candidates, err := r.search.Search(ctx, query)
	if err != nil {
		return response_models.GeoPoint{}, fmt.Errorf("%w: %q: %w", utils.ErrPlaceNotResolved, query, err)
	}
	if len(candidates) == 0 {
		return response_models.GeoPoint{}, fmt.Errorf("%w: %q: no results", utils.ErrPlaceNotResolved, query)
	}

	top := candidates[0]
	point, ok := response_models.NewGeoPoint(top.Longitude, top.Latitude)
	if !ok {
		return response_models.GeoPoint{}, fmt.Errorf("%w: %q: unusable coordinates (%v, %v)",
			utils.ErrPlaceNotResolved, query, top.Longitude, top.Latitude)
	}

	r.logger.Debug("place resolved",
		zap.String("place", query),
		zap.String("match", top.Name),
		zap.Float64("lng", point.Longitude()),
		zap.Float64("lat", point.Latitude()))
	return point, nil
}
