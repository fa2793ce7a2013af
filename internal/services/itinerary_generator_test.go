package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tripcanvas/internal/config"
	"tripcanvas/internal/models/request_models"
	"tripcanvas/pkg/utils"
)

const simpleTwoDays = `{
  "tripTitle": "Seoul in two days",
  "days": [
    {"day": 1, "theme": "palaces", "accommodation": "Hotel Shilla",
     "activities": [
       {"placeName": "Gyeongbokgung", "description": "palace", "subwayStation": "Gyeongbokgung"},
       {"placeName": "Bukchon Hanok Village", "description": "hanok", "subwayStation": "Anguk"},
       {"placeName": "Insadong", "description": "tea", "subwayStation": "Anguk"}
     ]},
    {"day": 2, "theme": "river", "accommodation": "none",
     "activities": [
       {"placeName": "Yeouido Hangang Park", "description": "picnic", "subwayStation": "Yeouinaru"},
       {"placeName": "63 Building", "description": "view", "subwayStation": ""},
       {"placeName": "Noryangjin Fish Market", "description": "seafood", "subwayStation": "Noryangjin"}
     ]}
  ]
}`

const richOneDay = `{
  "tripOverview": {"destination": "Busan", "days": "day trip", "totalPeople": 2, "totalEstimatedCost": 90000},
  "tripSchedule": [
    {"day": 1, "theme": "sea",
     "dailyPlaces": [
       {"uniqueName": "Haeundae Beach", "description": "beach", "estimatedCost": 0,
        "coordinates": {"latitude": 0, "longitude": 0}, "nearbySubwayStation": "Haeundae"},
       {"uniqueName": "Gamcheon Culture Village", "description": "murals", "estimatedCost": 10000,
        "nearbySubwayStation": "Toseong"},
       {"uniqueName": "Jagalchi Market", "description": "lunch", "estimatedCost": 80000,
        "nearbySubwayStation": "Jagalchi"}
     ]}
  ]
}`

func generatorConfig(schema config.SchemaVersion, attempts int) config.GeneratorConfig {
	return config.GeneratorConfig{
		Timeout:       time.Second,
		MaxAttempts:   attempts,
		Schema:        schema,
		Region:        "Seoul",
		MinActivities: 3,
		MaxActivities: 4,
	}
}

func seoulRequest(days int) request_models.ItineraryRequest {
	return request_models.ItineraryRequest{Destination: "Seoul", Days: days, Budget: 500000, People: 2, Interests: "history, food"}
}

func TestGenerator_SimpleSchema(t *testing.T) {
	client := &stubGenerative{responses: []string{simpleTwoDays}}
	gen := NewItineraryGenerator(client, generatorConfig(config.SchemaSimple, 1), zap.NewNop())

	it, err := gen.Generate(context.Background(), seoulRequest(2))
	require.NoError(t, err)

	assert.Equal(t, "Seoul in two days", it.TripTitle)
	require.Len(t, it.Days, 2)
	assert.Equal(t, "Hotel Shilla", it.Days[0].Accommodation)
	assert.Equal(t, "Anguk", it.Days[0].Activities[1].SubwayStation)
	for _, d := range it.Days {
		for _, a := range d.Activities {
			assert.Nil(t, a.Location)
		}
	}

	require.Len(t, client.schemas, 1)
	assert.Equal(t, "simple_itinerary", client.schemas[0].Name)
	assert.Contains(t, client.prompts[0], "exactly a 2-day itinerary")
}

func TestGenerator_RichSchemaDiscardsModelCoordinates(t *testing.T) {
	client := &stubGenerative{responses: []string{richOneDay}}
	gen := NewItineraryGenerator(client, generatorConfig(config.SchemaRich, 1), zap.NewNop())

	req := request_models.ItineraryRequest{Destination: "Busan", Days: 1, Budget: 100000, People: 2}
	it, err := gen.Generate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "Busan day trip trip plan", it.TripTitle)
	require.NotNil(t, it.TripOverview)
	assert.Equal(t, int64(90000), it.TripOverview.TotalEstimatedCost)
	require.Len(t, it.Days, 1)
	assert.Empty(t, it.Days[0].Accommodation)
	require.Len(t, it.Days[0].Activities, 3)
	assert.Nil(t, it.Days[0].Activities[0].Location)
	require.NotNil(t, it.Days[0].Activities[2].EstimatedCost)
	assert.Equal(t, int64(80000), *it.Days[0].Activities[2].EstimatedCost)

	assert.Contains(t, client.prompts[0], `write "none" as the accommodation`)
}

func TestGenerator_RejectsNonConformingOutput(t *testing.T) {
	cases := map[string]string{
		"not json":          `this is not json`,
		"unknown shape":     `{"itinerary": []}`,
		"missing title":     `{"days": []}`,
		"zero days":         `{"tripTitle": "t", "days": []}`,
		"wrong day count":   `{"tripTitle": "t", "days": [{"day": 1, "theme": "x", "accommodation": "none", "activities": [{"placeName": "A", "description": "", "subwayStation": ""}]}]}`,
		"missing field":     `{"tripTitle": "t", "days": [{"day": 1, "theme": "x", "activities": []}, {"day": 2, "theme": "y", "accommodation": "none", "activities": []}]}`,
		"non contiguous":    `{"tripTitle": "t", "days": [{"day": 1, "theme": "x", "accommodation": "none", "activities": []}, {"day": 3, "theme": "y", "accommodation": "none", "activities": []}]}`,
		"fractional day":    `{"tripTitle": "t", "days": [{"day": 1, "theme": "x", "accommodation": "none", "activities": []}, {"day": 2.5, "theme": "y", "accommodation": "none", "activities": []}]}`,
		"blank place":       `{"tripTitle": "t", "days": [{"day": 1, "theme": "x", "accommodation": "none", "activities": [{"placeName": " ", "description": "", "subwayStation": ""}]}, {"day": 2, "theme": "y", "accommodation": "none", "activities": []}]}`,
		"activity field":    `{"tripTitle": "t", "days": [{"day": 1, "theme": "x", "accommodation": "none", "activities": [{"placeName": "A"}]}, {"day": 2, "theme": "y", "accommodation": "none", "activities": []}]}`,
		"trailing document": simpleTwoDays + ` {}`,
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			client := &stubGenerative{responses: []string{raw}}
			gen := NewItineraryGenerator(client, generatorConfig(config.SchemaSimple, 1), zap.NewNop())

			it, err := gen.Generate(context.Background(), seoulRequest(2))
			assert.Nil(t, it)
			assert.ErrorIs(t, err, utils.ErrGenerationFailed)
		})
	}
}

// richDocument builds a one-day rich document around a single place.
func richDocument(people, total, place string) string {
	return `{"tripOverview": {"destination": "Busan", "days": "day trip", "totalPeople": ` + people +
		`, "totalEstimatedCost": ` + total + `}, "tripSchedule": [{"day": 1, "theme": "sea", "dailyPlaces": [` + place + `]}]}`
}

const richPlace = `{"uniqueName": "Haeundae Beach", "description": "beach", "estimatedCost": 0, "nearbySubwayStation": "Haeundae"}`

func TestGenerator_RichRejectsNonConformingOutput(t *testing.T) {
	cases := map[string]string{
		"missing overview":      `{"tripSchedule": []}`,
		"huge total":            richDocument("2", "1e300", richPlace),
		"negative total":        richDocument("2", "-1", richPlace),
		"fractional total":      richDocument("2", "1000.5", richPlace),
		"no people":             richDocument("0", "1000", richPlace),
		"fractional people":     richDocument("1.5", "1000", richPlace),
		"negative cost":         richDocument("2", "1000", `{"uniqueName": "A", "description": "", "estimatedCost": -5, "nearbySubwayStation": ""}`),
		"fractional cost":       richDocument("2", "1000", `{"uniqueName": "A", "description": "", "estimatedCost": 99.9, "nearbySubwayStation": ""}`),
		"coordinates not obj":   richDocument("2", "1000", `{"uniqueName": "A", "description": "", "estimatedCost": 5, "coordinates": "junk", "nearbySubwayStation": ""}`),
		"coordinates partial":   richDocument("2", "1000", `{"uniqueName": "A", "description": "", "estimatedCost": 5, "coordinates": {"latitude": 35.1}, "nearbySubwayStation": ""}`),
		"coordinates extra key": richDocument("2", "1000", `{"uniqueName": "A", "description": "", "estimatedCost": 5, "coordinates": {"latitude": 35.1, "longitude": 129.1, "alt": 3}, "nearbySubwayStation": ""}`),
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			client := &stubGenerative{responses: []string{raw}}
			gen := NewItineraryGenerator(client, generatorConfig(config.SchemaRich, 1), zap.NewNop())

			req := request_models.ItineraryRequest{Destination: "Busan", Days: 1, Budget: 100000, People: 2}
			it, err := gen.Generate(context.Background(), req)
			assert.Nil(t, it)
			assert.ErrorIs(t, err, utils.ErrGenerationFailed)
		})
	}

	it, err := DecodeItinerary(config.SchemaRich, richDocument("2", "1000", richPlace), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, it.TripOverview.TotalPeople)
	assert.Equal(t, int64(1000), it.TripOverview.TotalEstimatedCost)
}

func TestGenerator_ClientErrorIsGenerationFailure(t *testing.T) {
	client := &stubGenerative{errs: []error{errors.New("quota exceeded")}}
	gen := NewItineraryGenerator(client, generatorConfig(config.SchemaSimple, 1), zap.NewNop())

	_, err := gen.Generate(context.Background(), seoulRequest(2))
	assert.ErrorIs(t, err, utils.ErrGenerationFailed)
	assert.ErrorContains(t, err, "quota exceeded")
	assert.Len(t, client.prompts, 1)
}

func TestGenerator_RetriesWhenConfigured(t *testing.T) {
	client := &stubGenerative{responses: []string{`{"tripTitle": "t", "days": []}`, simpleTwoDays}}
	gen := NewItineraryGenerator(client, generatorConfig(config.SchemaSimple, 3), zap.NewNop())

	it, err := gen.Generate(context.Background(), seoulRequest(2))
	require.NoError(t, err)
	assert.Len(t, it.Days, 2)
	require.Len(t, client.prompts, 2)
	assert.Contains(t, client.prompts[1], "previous answer was rejected")
}

func TestGenerator_InvalidRequestMakesNoCall(t *testing.T) {
	client := &stubGenerative{responses: []string{simpleTwoDays}}
	gen := NewItineraryGenerator(client, generatorConfig(config.SchemaSimple, 1), zap.NewNop())

	_, err := gen.Generate(context.Background(), request_models.ItineraryRequest{Destination: "Seoul", Days: 2, Budget: 0, People: 1})
	assert.ErrorIs(t, err, utils.ErrInvalidItineraryRequest)
	assert.Empty(t, client.prompts)
}

func TestPromptBuilder_CampingTheme(t *testing.T) {
	p := NewPromptBuilder(generatorConfig(config.SchemaRich, 1))
	req := seoulRequest(3)
	req.Interests = "캠핑, hiking"
	window, err := req.Validate()
	require.NoError(t, err)

	prompt := p.Build(req, window)
	assert.Contains(t, prompt, "campsite")
	assert.Contains(t, prompt, "between 3 and 4 activities")
	assert.Contains(t, prompt, "estimatedCost")
	assert.NotContains(t, prompt, `write "none"`)

	assert.Equal(t, AccommodationLodging, AccommodationThemeFor([]string{"food"}))
	assert.Equal(t, AccommodationCamping, AccommodationThemeFor([]string{"Camping trip"}))
}
