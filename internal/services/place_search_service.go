package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"tripcanvas/pkg/utils"
)

// PlaceCandidate is one ranked match. Unparsable coordinates are carried as NaN.
type PlaceCandidate struct {
	Name      string
	Address   string
	Longitude float64
	Latitude  float64
}

type PlaceSearchService interface {
	Search(ctx context.Context, query string) ([]PlaceCandidate, error)
}

// -------------- Kakao Local keyword search ---------------

const kakaoKeywordPath = "/v2/local/search/keyword.json"

type KakaoPlaceSearchClient struct {
	HTTP    *http.Client
	BaseURL string
	APIKey  string
}

func NewKakaoPlaceSearchClient(baseURL, apiKey string, timeout time.Duration) *KakaoPlaceSearchClient {
	return &KakaoPlaceSearchClient{
		HTTP:    &http.Client{Timeout: timeout},
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
	}
}

type kakaoDocument struct {
	PlaceName   string `json:"place_name"`
	AddressName string `json:"address_name"`
	RoadAddress string `json:"road_address_name"`
	X           string `json:"x"`
	Y           string `json:"y"`
}

type kakaoKeywordResponse struct {
	Documents []kakaoDocument `json:"documents"`
}

func (c *KakaoPlaceSearchClient) Search(ctx context.Context, query string) ([]PlaceCandidate, error) {
	if c.APIKey == "" {
		return nil, fmt.Errorf("kakao: %w: KAKAO_API_KEY is empty", utils.ErrPlaceSearchNotConfigured)
	}

	q := url.Values{}
	q.Set("query", query)
	endpoint := c.BaseURL + kakaoKeywordPath + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("kakao: build request: %w", err)
	}
	req.Header.Set("Authorization", "KakaoAK "+c.APIKey)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("kakao http error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("kakao bad status: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var payload kakaoKeywordResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("kakao decode: %w", err)
	}

	out := make([]PlaceCandidate, 0, len(payload.Documents))
	for _, doc := range payload.Documents {
		address := doc.RoadAddress
		if address == "" {
			address = doc.AddressName
		}
		out = append(out, PlaceCandidate{
			Name:      doc.PlaceName,
			Address:   address,
			Longitude: parseCoordinate(doc.X),
			Latitude:  parseCoordinate(doc.Y),
		})
	}
	return out, nil
}

func parseCoordinate(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
