package utils

import (
	"math"
	"regexp"
	"strconv"
)

var (
	gpsMarkerRe = regexp.MustCompile(`(?i)GPS:\s*(-?\d+(?:\.\d+)?)\s*,\s*(-?\d+(?:\.\d+)?)`)
	barePairRe  = regexp.MustCompile(`(-?\d+(?:\.\d+)?)\s*,\s*(-?\d+(?:\.\d+)?)`)
)

func IsValidCoordinates(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lng) || math.IsInf(lng, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// ParseCoordinates extracts a lat/lng pair from free-text location input.
// Accepts an explicit "GPS: <lat>, <lng>" marker or a bare "<lat>, <lng>"
// pair anywhere in the text. A text without parseable coordinates is not
// an error; callers degrade to zone-based handling.
func ParseCoordinates(text string) (lat, lng float64, ok bool) {
	match := gpsMarkerRe.FindStringSubmatch(text)
	if match == nil {
		match = barePairRe.FindStringSubmatch(text)
	}
	if match == nil {
		return 0, 0, false
	}

	lat, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0, 0, false
	}
	lng, err = strconv.ParseFloat(match[2], 64)
	if err != nil {
		return 0, 0, false
	}

	if !IsValidCoordinates(lat, lng) {
		return 0, 0, false
	}
	return lat, lng, true
}
