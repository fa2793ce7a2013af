package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"tripcanvas/internal/models/response_models"
	"tripcanvas/pkg/utils"
)

// stubSearch answers from a fixed table; unknown names return no results.
type stubSearch struct {
	mu      sync.Mutex
	table   map[string][]PlaceCandidate
	errs    map[string]error
	queries []string
}

func newStubSearch() *stubSearch {
	return &stubSearch{table: map[string][]PlaceCandidate{}, errs: map[string]error{}}
}

func (s *stubSearch) with(name string, lng, lat float64) *stubSearch {
	s.table[name] = []PlaceCandidate{{Name: name, Longitude: lng, Latitude: lat}}
	return s
}

func (s *stubSearch) failing(name string, err error) *stubSearch {
	s.errs[name] = err
	return s
}

func (s *stubSearch) Search(ctx context.Context, query string) ([]PlaceCandidate, error) {
	s.mu.Lock()
	s.queries = append(s.queries, query)
	s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := s.errs[query]; ok {
		return nil, err
	}
	return s.table[query], nil
}

func (s *stubSearch) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queries)
}

// stubResolver resolves names from a table and fails everything else.
type stubResolver struct {
	mu     sync.Mutex
	points map[string]response_models.GeoPoint
	seen   []string
}

func newStubResolver(known ...string) *stubResolver {
	r := &stubResolver{points: map[string]response_models.GeoPoint{}}
	for i, name := range known {
		p, _ := response_models.NewGeoPoint(127.0+float64(i)*0.01, 37.5+float64(i)*0.01)
		r.points[name] = p
	}
	return r
}

func (r *stubResolver) Resolve(ctx context.Context, name string) (response_models.GeoPoint, error) {
	r.mu.Lock()
	r.seen = append(r.seen, name)
	r.mu.Unlock()

	if strings.TrimSpace(name) == "" {
		return response_models.GeoPoint{}, utils.ErrPlaceNotResolved
	}
	if p, ok := r.points[name]; ok {
		return p, nil
	}
	return response_models.GeoPoint{}, errors.Join(utils.ErrPlaceNotResolved, errors.New("no results for "+name))
}

// stubGenerative replays canned responses in order; the last one repeats.
type stubGenerative struct {
	responses []string
	errs      []error
	prompts   []string
	schemas   []*utils.Schema
}

func (g *stubGenerative) GenerateJSON(_ context.Context, prompt string, schema *utils.Schema) (string, error) {
	i := len(g.prompts)
	g.prompts = append(g.prompts, prompt)
	g.schemas = append(g.schemas, schema)

	var err error
	if i < len(g.errs) {
		err = g.errs[i]
	}
	if err != nil {
		return "", err
	}
	if len(g.responses) == 0 {
		return "", errors.New("no canned response")
	}
	if i >= len(g.responses) {
		i = len(g.responses) - 1
	}
	return g.responses[i], nil
}

func (g *stubGenerative) Close() error { return nil }

func activities(names ...string) []response_models.PlaceActivity {
	out := make([]response_models.PlaceActivity, 0, len(names))
	for _, n := range names {
		out = append(out, response_models.PlaceActivity{PlaceName: n, Description: "visit " + n})
	}
	return out
}
