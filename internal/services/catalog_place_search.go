package services

import (
	"context"
	"math"

	"tripcanvas/internal/repositories"
)

const catalogSearchLimit = 5

// CatalogPlaceSearch serves place search from the imported place catalog.
type CatalogPlaceSearch struct {
	repo repositories.PlaceRepository
}

func NewCatalogPlaceSearch(repo repositories.PlaceRepository) *CatalogPlaceSearch {
	return &CatalogPlaceSearch{repo: repo}
}

func (s *CatalogPlaceSearch) Search(ctx context.Context, query string) ([]PlaceCandidate, error) {
	places, err := s.repo.SearchByTitle(ctx, query, catalogSearchLimit)
	if err != nil {
		return nil, err
	}

	out := make([]PlaceCandidate, 0, len(places))
	for _, p := range places {
		lng, lat := math.NaN(), math.NaN()
		if p.Coordinates != nil && len(p.Coordinates.Coordinates) == 2 {
			lng, lat = p.Coordinates.Coordinates[0], p.Coordinates.Coordinates[1]
		}
		out = append(out, PlaceCandidate{
			Name:      p.Title,
			Address:   p.Address.Full,
			Longitude: lng,
			Latitude:  lat,
		})
	}
	return out, nil
}
