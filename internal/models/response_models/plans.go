package response_models

type DroppedActivities struct {
	Day    int      `json:"day"`
	Places []string `json:"places"`
}

type DroppedDay struct {
	Day    int    `json:"day"`
	Reason string `json:"reason"`
}

type ValidationReport struct {
	Policy            string              `json:"policy"`
	ResolvedPlaces    int                 `json:"resolvedPlaces"`
	FailedPlaces      int                 `json:"failedPlaces"`
	DroppedActivities []DroppedActivities `json:"droppedActivities,omitempty"`
	DroppedDays       []DroppedDay        `json:"droppedDays,omitempty"`
}

type PlanResult struct {
	Itinerary *Itinerary       `json:"itinerary"`
	Report    ValidationReport `json:"report"`
}
