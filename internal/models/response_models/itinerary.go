package response_models

import "math"

// GeoPoint is a GeoJSON point; Coordinates are [longitude, latitude].
type GeoPoint struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

// NewGeoPoint rejects non-finite, out of range and (0,0) coordinates.
func NewGeoPoint(lng, lat float64) (GeoPoint, bool) {
	if math.IsNaN(lng) || math.IsNaN(lat) || math.IsInf(lng, 0) || math.IsInf(lat, 0) {
		return GeoPoint{}, false
	}
	if lng < -180 || lng > 180 || lat < -90 || lat > 90 {
		return GeoPoint{}, false
	}
	if lng == 0 && lat == 0 {
		return GeoPoint{}, false
	}
	return GeoPoint{Type: "Point", Coordinates: [2]float64{lng, lat}}, true
}

func (p GeoPoint) Longitude() float64 { return p.Coordinates[0] }
func (p GeoPoint) Latitude() float64  { return p.Coordinates[1] }

type TripOverview struct {
	Destination        string `json:"destination"`
	Days               string `json:"days"`
	StartDate          string `json:"startDate,omitempty"`
	EndDate            string `json:"endDate,omitempty"`
	TotalPeople        int    `json:"totalPeople"`
	TotalEstimatedCost int64  `json:"totalEstimatedCost"`
}

type PlaceActivity struct {
	PlaceName     string    `json:"placeName"`
	Description   string    `json:"description"`
	SubwayStation string    `json:"subwayStation,omitempty"`
	EstimatedCost *int64    `json:"estimatedCost,omitempty"`
	Location      *GeoPoint `json:"location"`
}

type DayPlan struct {
	Day                   int             `json:"day"`
	Theme                 string          `json:"theme"`
	Activities            []PlaceActivity `json:"activities"`
	Accommodation         string          `json:"accommodation,omitempty"`
	AccommodationLocation *GeoPoint       `json:"accommodationLocation,omitempty"`
}

type Itinerary struct {
	TripTitle    string        `json:"tripTitle"`
	TripOverview *TripOverview `json:"tripOverview,omitempty"`
	Days         []DayPlan     `json:"days"`
}

// PlaceCount counts activities plus present accommodations.
func (it *Itinerary) PlaceCount() int {
	n := 0
	for _, d := range it.Days {
		n += len(d.Activities)
		if HasAccommodation(d.Accommodation) {
			n++
		}
	}
	return n
}
