package services

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tripcanvas/internal/models/db_models"
	"tripcanvas/internal/repositories"
	"tripcanvas/pkg/utils"
)

type fakePlaceRepo struct {
	places  []db_models.Place
	limit   int64
	indexed bool
}

func (f *fakePlaceRepo) EnsureIndexes(context.Context) error {
	f.indexed = true
	return nil
}

func (f *fakePlaceRepo) UpsertMany(_ context.Context, places []db_models.Place) (*repositories.PlaceUpsertResult, error) {
	out := &repositories.PlaceUpsertResult{}
	for _, place := range places {
		replaced := false
		for i := range f.places {
			if f.places[i].ContentID == place.ContentID {
				f.places[i] = place
				replaced = true
				out.Updated++
			}
		}
		if !replaced {
			f.places = append(f.places, place)
			out.Inserted++
		}
	}
	return out, nil
}

func (f *fakePlaceRepo) SearchByTitle(_ context.Context, title string, limit int64) ([]db_models.Place, error) {
	f.limit = limit
	var out []db_models.Place
	for _, p := range f.places {
		if p.Title == title {
			out = append(out, p)
		}
	}
	return out, nil
}

func TestCatalogPlaceSearch(t *testing.T) {
	repo := &fakePlaceRepo{places: []db_models.Place{
		{
			Title:       "Changdeokgung",
			Address:     db_models.PlaceAddress{Full: "99 Yulgok-ro, Jongno-gu"},
			Coordinates: &db_models.GeoJSONPoint{Type: "Point", Coordinates: []float64{126.991, 37.579}},
		},
		{Title: "No Coordinates"},
	}}
	search := NewCatalogPlaceSearch(repo)

	got, err := search.Search(context.Background(), "Changdeokgung")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 126.991, got[0].Longitude)
	assert.Equal(t, 37.579, got[0].Latitude)
	assert.Equal(t, int64(catalogSearchLimit), repo.limit)

	got, err = search.Search(context.Background(), "No Coordinates")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, math.IsNaN(got[0].Longitude))

	resolver := NewGeoResolver(search, time.Second, 0, 1, zap.NewNop())
	_, err = resolver.Resolve(context.Background(), "No Coordinates")
	assert.ErrorIs(t, err, utils.ErrPlaceNotResolved)
}
