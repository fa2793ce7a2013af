package response_models

import "strings"

var noAccommodationMarkers = []string{"none", "없음", "n/a"}

// HasAccommodation reports whether name refers to a real place to look up.
func HasAccommodation(name string) bool {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return false
	}
	for _, marker := range noAccommodationMarkers {
		if strings.EqualFold(trimmed, marker) {
			return false
		}
	}
	return true
}
