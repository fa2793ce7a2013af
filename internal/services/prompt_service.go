package services

import (
	"fmt"
	"strings"

	"tripcanvas/internal/config"
	"tripcanvas/internal/models/request_models"
	"tripcanvas/pkg/utils"
)

type AccommodationTheme string

const (
	AccommodationCamping AccommodationTheme = "camping"
	AccommodationLodging AccommodationTheme = "lodging"
)

var campingKeywords = []string{"camping", "캠핑", "glamping", "글램핑"}

// AccommodationThemeFor picks camping sites when any interest mentions camping.
func AccommodationThemeFor(interests []string) AccommodationTheme {
	for _, interest := range interests {
		lower := strings.ToLower(interest)
		for _, kw := range campingKeywords {
			if strings.Contains(lower, kw) {
				return AccommodationCamping
			}
		}
	}
	return AccommodationLodging
}

// PromptBuilder renders the natural-language instructions sent with the schema.
type PromptBuilder struct {
	region        string
	schema        config.SchemaVersion
	minActivities int
	maxActivities int
}

func NewPromptBuilder(cfg config.GeneratorConfig) *PromptBuilder {
	return &PromptBuilder{
		region:        cfg.Region,
		schema:        cfg.Schema,
		minActivities: cfg.MinActivities,
		maxActivities: cfg.MaxActivities,
	}
}

func (p *PromptBuilder) Build(req request_models.ItineraryRequest, window request_models.TripWindow) string {
	var prompt strings.Builder
	interests := req.InterestList()

	prompt.WriteString(fmt.Sprintf("You are an expert local travel planner for %s.\n", p.region))
	prompt.WriteString(fmt.Sprintf("Create exactly a %d-day itinerary (%s) for a trip to %s.\n",
		window.Days, window.DurationLabel(), strings.TrimSpace(req.Destination)))
	if window.HasDates() {
		prompt.WriteString(fmt.Sprintf("Travel dates: %s to %s.\n",
			utils.FormatTripDate(window.StartDate), utils.FormatTripDate(window.EndDate)))
	}
	prompt.WriteString(fmt.Sprintf("Party size: %d people. Total budget for the whole trip: %d.\n", req.People, req.Budget))
	if len(interests) > 0 {
		prompt.WriteString(fmt.Sprintf("Interests: %s.\n", strings.Join(interests, ", ")))
	}

	prompt.WriteString("\nRules:\n")
	prompt.WriteString(fmt.Sprintf("1. Return exactly %d days numbered 1 to %d with no gaps.\n", window.Days, window.Days))
	prompt.WriteString(fmt.Sprintf("2. Every day has between %d and %d activities.\n", p.minActivities, p.maxActivities))
	prompt.WriteString("3. Each activity names exactly one real venue as it is listed on a map search. " +
		"Do not combine venues (\"A and B\"), do not add descriptive suffixes, do not use activity verbs such as \"walk along\" or \"shopping at\".\n")

	switch AccommodationThemeFor(interests) {
	case AccommodationCamping:
		prompt.WriteString("4. Accommodation must be a specific campsite or glamping site that can be found by map search.\n")
	default:
		prompt.WriteString("4. Accommodation must be a specific hotel, guesthouse or other lodging that can be found by map search.\n")
	}
	if window.Days == 1 {
		prompt.WriteString("   This is a single-day trip: write \"none\" as the accommodation.\n")
	}

	prompt.WriteString("5. Give the nearest subway station for each place, or an empty string if there is none.\n")
	if p.schema == config.SchemaRich {
		prompt.WriteString(fmt.Sprintf("6. Give estimatedCost per place as an integer for the whole party. "+
			"The sum must not exceed the budget of %d; report it as totalEstimatedCost.\n", req.Budget))
		prompt.WriteString("7. Set coordinates to 0 for latitude and longitude; they are filled in later.\n")
	}

	prompt.WriteString("\nReturn JSON only, matching the response schema. No comments, no markdown.\n")
	return prompt.String()
}

// Retry appends the reason the previous answer was rejected.
func (p *PromptBuilder) Retry(base string, previous error) string {
	return base + fmt.Sprintf("\nYour previous answer was rejected: %v. Follow every rule exactly.\n", previous)
}
