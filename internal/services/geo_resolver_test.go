package services

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tripcanvas/pkg/utils"
)

func newTestResolver(search PlaceSearchService) *GeoResolver {
	return NewGeoResolver(search, time.Second, 0, 1, zap.NewNop())
}

func TestGeoResolver_TakesFirstResult(t *testing.T) {
	search := newStubSearch()
	search.table["Namsan Tower"] = []PlaceCandidate{
		{Name: "N Seoul Tower", Longitude: 126.9882, Latitude: 37.5512},
		{Name: "Namsan Park", Longitude: 126.99, Latitude: 37.55},
	}

	p, err := newTestResolver(search).Resolve(context.Background(), "  Namsan Tower ")
	require.NoError(t, err)
	assert.Equal(t, "Point", p.Type)
	assert.Equal(t, [2]float64{126.9882, 37.5512}, p.Coordinates)
	assert.Equal(t, []string{"Namsan Tower"}, search.queries)
}

func TestGeoResolver_Failures(t *testing.T) {
	search := newStubSearch().
		with("Null Island", 0, 0).
		with("Broken", math.NaN(), 37.5).
		failing("Down", errors.New("connection refused"))

	resolver := newTestResolver(search)
	for _, name := range []string{"Nowhere", "Null Island", "Broken", "Down"} {
		t.Run(name, func(t *testing.T) {
			_, err := resolver.Resolve(context.Background(), name)
			assert.ErrorIs(t, err, utils.ErrPlaceNotResolved)
		})
	}
}

func TestGeoResolver_BlankNameSkipsSearch(t *testing.T) {
	search := newStubSearch()
	_, err := newTestResolver(search).Resolve(context.Background(), "   ")
	assert.ErrorIs(t, err, utils.ErrPlaceNotResolved)
	assert.Zero(t, search.calls())
}

func TestGeoResolver_IsIdempotentWithoutCaching(t *testing.T) {
	search := newStubSearch().with("Bukchon Hanok Village", 126.985, 37.582)
	resolver := newTestResolver(search)

	first, err := resolver.Resolve(context.Background(), "Bukchon Hanok Village")
	require.NoError(t, err)
	second, err := resolver.Resolve(context.Background(), "Bukchon Hanok Village")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 2, search.calls())
}

func TestGeoResolver_HTTPErrorIsResolutionFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	resolver := newTestResolver(NewKakaoPlaceSearchClient(srv.URL, "key", time.Second))
	_, err := resolver.Resolve(context.Background(), "X")
	assert.ErrorIs(t, err, utils.ErrPlaceNotResolved)
}

func TestGeoResolver_TimeoutIsResolutionFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	resolver := NewGeoResolver(NewKakaoPlaceSearchClient(srv.URL, "key", 5*time.Second), 50*time.Millisecond, 0, 1, zap.NewNop())
	_, err := resolver.Resolve(context.Background(), "Slow Cafe")
	assert.ErrorIs(t, err, utils.ErrPlaceNotResolved)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGeoResolver_CancelledContext(t *testing.T) {
	search := newStubSearch().with("Cafe", 127, 37.5)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestResolver(search).Resolve(ctx, "Cafe")
	assert.ErrorIs(t, err, utils.ErrPlaceNotResolved)
}
