package request_models

import (
	"fmt"
	"strings"
	"time"

	"tripcanvas/pkg/utils"
)

const MaxTripDays = 30

type ItineraryRequest struct {
	Destination string `json:"destination"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Days        int    `json:"days"`
	Budget      int64  `json:"budget"`
	People      int    `json:"people"`
	Interests   string `json:"interests"`
}

// TripWindow is the validated duration of a request.
type TripWindow struct {
	Days      int
	StartDate time.Time
	EndDate   time.Time
}

func (w TripWindow) HasDates() bool { return !w.StartDate.IsZero() }

// DurationLabel renders "N nights M days", or "day trip" for one day.
func (w TripWindow) DurationLabel() string {
	if w.Days == 1 {
		return "day trip"
	}
	return fmt.Sprintf("%d nights %d days", w.Days-1, w.Days)
}

// Validate checks the request before any network call and derives its duration.
func (r ItineraryRequest) Validate() (TripWindow, error) {
	if strings.TrimSpace(r.Destination) == "" {
		return TripWindow{}, invalid("destination is required")
	}
	if r.Budget <= 0 {
		return TripWindow{}, invalid("budget must be greater than 0")
	}
	if r.People < 1 {
		return TripWindow{}, invalid("people must be at least 1")
	}

	var w TripWindow
	hasStart := strings.TrimSpace(r.StartDate) != ""
	hasEnd := strings.TrimSpace(r.EndDate) != ""

	switch {
	case hasStart && hasEnd:
		start, err := utils.ParseTripDate(r.StartDate)
		if err != nil {
			return TripWindow{}, invalid("start_date: %v", err)
		}
		end, err := utils.ParseTripDate(r.EndDate)
		if err != nil {
			return TripWindow{}, invalid("end_date: %v", err)
		}
		if end.Before(start) {
			return TripWindow{}, invalid("end_date must not be before start_date")
		}
		w = TripWindow{Days: utils.InclusiveDays(start, end), StartDate: start, EndDate: end}
		if r.Days != 0 && r.Days != w.Days {
			return TripWindow{}, invalid("days (%d) does not match the date range (%d)", r.Days, w.Days)
		}
	case hasStart || hasEnd:
		return TripWindow{}, invalid("start_date and end_date must be given together")
	default:
		w = TripWindow{Days: r.Days}
	}

	if w.Days < 1 || w.Days > MaxTripDays {
		return TripWindow{}, invalid("trip length must be between 1 and %d days", MaxTripDays)
	}
	return w, nil
}

// InterestList splits the free-text interests on commas.
func (r ItineraryRequest) InterestList() []string {
	var out []string
	for _, part := range strings.Split(r.Interests, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", utils.ErrInvalidItineraryRequest, fmt.Sprintf(format, args...))
}
