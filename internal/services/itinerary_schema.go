package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"tripcanvas/internal/config"
	"tripcanvas/internal/models/response_models"
	"tripcanvas/pkg/utils"
)

func schemaString(desc string) *utils.Schema {
	return &utils.Schema{Type: utils.TypeString, Description: desc}
}

func schemaInteger(desc string) *utils.Schema {
	return &utils.Schema{Type: utils.TypeInteger, Description: desc}
}

// SimpleItinerarySchema: {tripTitle, days:[{day, theme, activities:[...], accommodation}]}.
func SimpleItinerarySchema() *utils.Schema {
	activity := &utils.Schema{
		Type: utils.TypeObject,
		Properties: map[string]*utils.Schema{
			"placeName":     schemaString("exact name of one venue as listed on a map search"),
			"description":   schemaString("what to do there"),
			"subwayStation": schemaString("nearest subway station, empty if none"),
		},
		Required: []string{"placeName", "description", "subwayStation"},
	}
	day := &utils.Schema{
		Type: utils.TypeObject,
		Properties: map[string]*utils.Schema{
			"day":           schemaInteger("day number starting at 1"),
			"theme":         schemaString("theme of the day"),
			"activities":    {Type: utils.TypeArray, Items: activity},
			"accommodation": schemaString("lodging name, or none"),
		},
		Required: []string{"day", "theme", "activities", "accommodation"},
	}
	return &utils.Schema{
		Name: "simple_itinerary",
		Type: utils.TypeObject,
		Properties: map[string]*utils.Schema{
			"tripTitle": schemaString("short title of the trip"),
			"days":      {Type: utils.TypeArray, Items: day},
		},
		Required: []string{"tripTitle", "days"},
	}
}

// RichItinerarySchema: {tripOverview:{...}, tripSchedule:[{day, theme, dailyPlaces:[...], accommodation?}]}.
func RichItinerarySchema() *utils.Schema {
	place := &utils.Schema{
		Type: utils.TypeObject,
		Properties: map[string]*utils.Schema{
			"uniqueName":    schemaString("exact name of one venue as listed on a map search"),
			"description":   schemaString("what to do there"),
			"estimatedCost": schemaInteger("estimated cost for the whole party"),
			"coordinates": {
				Type: utils.TypeObject,
				Properties: map[string]*utils.Schema{
					"latitude":  {Type: utils.TypeNumber},
					"longitude": {Type: utils.TypeNumber},
				},
				Required: []string{"latitude", "longitude"},
			},
			"nearbySubwayStation": schemaString("nearest subway station, empty if none"),
		},
		Required: []string{"uniqueName", "description", "estimatedCost", "nearbySubwayStation"},
	}
	day := &utils.Schema{
		Type: utils.TypeObject,
		Properties: map[string]*utils.Schema{
			"day":           schemaInteger("day number starting at 1"),
			"theme":         schemaString("theme of the day"),
			"dailyPlaces":   {Type: utils.TypeArray, Items: place},
			"accommodation": schemaString("lodging name, or none"),
		},
		Required: []string{"day", "theme", "dailyPlaces"},
	}
	overview := &utils.Schema{
		Type: utils.TypeObject,
		Properties: map[string]*utils.Schema{
			"destination":        schemaString("trip destination"),
			"days":               schemaString("duration label, e.g. 2 nights 3 days"),
			"startDate":          schemaString("YYYY-MM-DD"),
			"endDate":            schemaString("YYYY-MM-DD"),
			"totalPeople":        schemaInteger("party size"),
			"totalEstimatedCost": schemaInteger("sum of all estimated costs"),
		},
		Required: []string{"destination", "days", "totalPeople", "totalEstimatedCost"},
	}
	return &utils.Schema{
		Name: "rich_itinerary",
		Type: utils.TypeObject,
		Properties: map[string]*utils.Schema{
			"tripOverview": overview,
			"tripSchedule": {Type: utils.TypeArray, Items: day},
		},
		Required: []string{"tripOverview", "tripSchedule"},
	}
}

func SchemaFor(version config.SchemaVersion) *utils.Schema {
	if version == config.SchemaSimple {
		return SimpleItinerarySchema()
	}
	return RichItinerarySchema()
}

// wire types use pointers so a missing field can be told apart from a zero value

type simpleWire struct {
	TripTitle *string          `json:"tripTitle"`
	Days      *[]simpleDayWire `json:"days"`
}

type simpleDayWire struct {
	Day           *float64              `json:"day"`
	Theme         *string               `json:"theme"`
	Activities    *[]simpleActivityWire `json:"activities"`
	Accommodation *string               `json:"accommodation"`
}

type simpleActivityWire struct {
	PlaceName     *string `json:"placeName"`
	Description   *string `json:"description"`
	SubwayStation *string `json:"subwayStation"`
}

type richWire struct {
	TripOverview *richOverviewWire `json:"tripOverview"`
	TripSchedule *[]richDayWire    `json:"tripSchedule"`
}

type richOverviewWire struct {
	Destination        *string  `json:"destination"`
	Days               *string  `json:"days"`
	StartDate          *string  `json:"startDate"`
	EndDate            *string  `json:"endDate"`
	TotalPeople        *float64 `json:"totalPeople"`
	TotalEstimatedCost *float64 `json:"totalEstimatedCost"`
}

type richDayWire struct {
	Day           *float64         `json:"day"`
	Theme         *string          `json:"theme"`
	DailyPlaces   *[]richPlaceWire `json:"dailyPlaces"`
	Accommodation *string          `json:"accommodation"`
}

type richPlaceWire struct {
	UniqueName          *string              `json:"uniqueName"`
	Description         *string              `json:"description"`
	EstimatedCost       *float64             `json:"estimatedCost"`
	Coordinates         *richCoordinatesWire `json:"coordinates"`
	NearbySubwayStation *string              `json:"nearbySubwayStation"`
}

type richCoordinatesWire struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func generationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", utils.ErrGenerationFailed, fmt.Sprintf(format, args...))
}

// DecodeItinerary parses and checks a generated document. It never returns a
// partially shaped itinerary.
func DecodeItinerary(version config.SchemaVersion, raw string, expectedDays int) (*response_models.Itinerary, error) {
	var (
		itinerary *response_models.Itinerary
		err       error
	)
	if version == config.SchemaSimple {
		itinerary, err = decodeSimple(raw)
	} else {
		itinerary, err = decodeRich(raw)
	}
	if err != nil {
		return nil, err
	}
	if err := checkDays(itinerary, expectedDays); err != nil {
		return nil, err
	}
	return itinerary, nil
}

func strictUnmarshal(raw string, v any) error {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return generationError("malformed response: %v", err)
	}
	if dec.More() {
		return generationError("malformed response: trailing data")
	}
	return nil
}

func decodeSimple(raw string) (*response_models.Itinerary, error) {
	var w simpleWire
	if err := strictUnmarshal(raw, &w); err != nil {
		return nil, err
	}
	if w.TripTitle == nil {
		return nil, generationError("missing tripTitle")
	}
	if w.Days == nil {
		return nil, generationError("missing days")
	}

	it := &response_models.Itinerary{TripTitle: strings.TrimSpace(*w.TripTitle)}
	for i, d := range *w.Days {
		path := fmt.Sprintf("days[%d]", i)
		if d.Day == nil || d.Theme == nil || d.Activities == nil || d.Accommodation == nil {
			return nil, generationError("%s: missing day, theme, activities or accommodation", path)
		}
		number, err := dayNumber(*d.Day, path)
		if err != nil {
			return nil, err
		}

		day := response_models.DayPlan{
			Day:           number,
			Theme:         *d.Theme,
			Accommodation: strings.TrimSpace(*d.Accommodation),
			Activities:    make([]response_models.PlaceActivity, 0, len(*d.Activities)),
		}
		for j, a := range *d.Activities {
			apath := fmt.Sprintf("%s.activities[%d]", path, j)
			if a.PlaceName == nil || a.Description == nil || a.SubwayStation == nil {
				return nil, generationError("%s: missing placeName, description or subwayStation", apath)
			}
			day.Activities = append(day.Activities, response_models.PlaceActivity{
				PlaceName:     strings.TrimSpace(*a.PlaceName),
				Description:   *a.Description,
				SubwayStation: strings.TrimSpace(*a.SubwayStation),
			})
		}
		it.Days = append(it.Days, day)
	}
	return it, nil
}

func decodeRich(raw string) (*response_models.Itinerary, error) {
	var w richWire
	if err := strictUnmarshal(raw, &w); err != nil {
		return nil, err
	}
	if w.TripOverview == nil {
		return nil, generationError("missing tripOverview")
	}
	if w.TripSchedule == nil {
		return nil, generationError("missing tripSchedule")
	}

	o := w.TripOverview
	if o.Destination == nil || o.Days == nil || o.TotalPeople == nil || o.TotalEstimatedCost == nil {
		return nil, generationError("tripOverview: missing destination, days, totalPeople or totalEstimatedCost")
	}
	people, err := wholeNumber(*o.TotalPeople, "tripOverview.totalPeople", 1)
	if err != nil {
		return nil, err
	}
	total, err := wholeNumber(*o.TotalEstimatedCost, "tripOverview.totalEstimatedCost", 0)
	if err != nil {
		return nil, err
	}
	overview := &response_models.TripOverview{
		Destination:        strings.TrimSpace(*o.Destination),
		Days:               strings.TrimSpace(*o.Days),
		StartDate:          deref(o.StartDate),
		EndDate:            deref(o.EndDate),
		TotalPeople:        int(people),
		TotalEstimatedCost: total,
	}

	it := &response_models.Itinerary{TripOverview: overview}
	for i, d := range *w.TripSchedule {
		path := fmt.Sprintf("tripSchedule[%d]", i)
		if d.Day == nil || d.Theme == nil || d.DailyPlaces == nil {
			return nil, generationError("%s: missing day, theme or dailyPlaces", path)
		}
		number, err := dayNumber(*d.Day, path)
		if err != nil {
			return nil, err
		}

		day := response_models.DayPlan{
			Day:           number,
			Theme:         *d.Theme,
			Accommodation: strings.TrimSpace(deref(d.Accommodation)),
			Activities:    make([]response_models.PlaceActivity, 0, len(*d.DailyPlaces)),
		}
		for j, p := range *d.DailyPlaces {
			ppath := fmt.Sprintf("%s.dailyPlaces[%d]", path, j)
			if p.UniqueName == nil || p.Description == nil || p.EstimatedCost == nil || p.NearbySubwayStation == nil {
				return nil, generationError("%s: missing uniqueName, description, estimatedCost or nearbySubwayStation", ppath)
			}
			cost, err := wholeNumber(*p.EstimatedCost, ppath+".estimatedCost", 0)
			if err != nil {
				return nil, err
			}
			// model-supplied coordinates only need the declared shape; the resolver sets Location
			if c := p.Coordinates; c != nil && (c.Latitude == nil || c.Longitude == nil) {
				return nil, generationError("%s.coordinates: missing latitude or longitude", ppath)
			}
			day.Activities = append(day.Activities, response_models.PlaceActivity{
				PlaceName:     strings.TrimSpace(*p.UniqueName),
				Description:   *p.Description,
				SubwayStation: strings.TrimSpace(*p.NearbySubwayStation),
				EstimatedCost: &cost,
			})
		}
		it.Days = append(it.Days, day)
	}
	return it, nil
}

// maxWholeNumber keeps integer fields within the range a float64 holds exactly.
const maxWholeNumber = 1 << 53

// wholeNumber accepts an integral JSON number in [min, maxWholeNumber].
func wholeNumber(v float64, path string, min int64) (int64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return 0, generationError("%s: must be an integer, got %v", path, v)
	}
	if v < float64(min) || v > maxWholeNumber {
		return 0, generationError("%s: %v is out of range [%d, %d]", path, v, min, int64(maxWholeNumber))
	}
	return int64(v), nil
}

func dayNumber(v float64, path string) (int, error) {
	n, err := wholeNumber(v, path+".day", 1)
	return int(n), err
}

func checkDays(it *response_models.Itinerary, expectedDays int) error {
	if len(it.Days) == 0 {
		return generationError("itinerary has no days")
	}
	if len(it.Days) != expectedDays {
		return generationError("expected %d days, got %d", expectedDays, len(it.Days))
	}
	for i, d := range it.Days {
		if d.Day != i+1 {
			return generationError("day numbers must run 1..%d, position %d has day %d", expectedDays, i+1, d.Day)
		}
		for j, a := range d.Activities {
			if a.PlaceName == "" {
				return generationError("day %d activity %d has a blank place name", d.Day, j+1)
			}
		}
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
