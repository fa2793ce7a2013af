package request_models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripcanvas/pkg/utils"
)

func validRequest() ItineraryRequest {
	return ItineraryRequest{Destination: "Seoul", Days: 2, Budget: 300000, People: 2}
}

func TestItineraryRequest_Validate(t *testing.T) {
	w, err := validRequest().Validate()
	require.NoError(t, err)
	assert.Equal(t, 2, w.Days)
	assert.False(t, w.HasDates())
	assert.Equal(t, "1 nights 2 days", w.DurationLabel())

	r := validRequest()
	r.Days = 0
	r.StartDate, r.EndDate = "2025-05-01", "2025-05-03"
	w, err = r.Validate()
	require.NoError(t, err)
	assert.Equal(t, 3, w.Days)
	assert.True(t, w.HasDates())
}

func TestItineraryRequest_ValidateRejects(t *testing.T) {
	cases := map[string]func(r *ItineraryRequest){
		"blank destination": func(r *ItineraryRequest) { r.Destination = "  " },
		"zero budget":       func(r *ItineraryRequest) { r.Budget = 0 },
		"no people":         func(r *ItineraryRequest) { r.People = 0 },
		"no duration":       func(r *ItineraryRequest) { r.Days = 0 },
		"too long":          func(r *ItineraryRequest) { r.Days = MaxTripDays + 1 },
		"end before start": func(r *ItineraryRequest) {
			r.Days = 0
			r.StartDate, r.EndDate = "2025-05-03", "2025-05-01"
		},
		"half range": func(r *ItineraryRequest) { r.StartDate = "2025-05-03" },
		"bad date": func(r *ItineraryRequest) {
			r.Days = 0
			r.StartDate, r.EndDate = "May 1", "2025-05-01"
		},
		"days mismatch": func(r *ItineraryRequest) {
			r.Days = 5
			r.StartDate, r.EndDate = "2025-05-01", "2025-05-02"
		},
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			r := validRequest()
			mutate(&r)
			_, err := r.Validate()
			assert.ErrorIs(t, err, utils.ErrInvalidItineraryRequest)
		})
	}
}

func TestItineraryRequest_InterestList(t *testing.T) {
	r := ItineraryRequest{Interests: " food, camping ,,history "}
	assert.Equal(t, []string{"food", "camping", "history"}, r.InterestList())
	assert.Nil(t, ItineraryRequest{}.InterestList())
}
