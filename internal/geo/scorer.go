package geo

import (
	"math"

	"yatraseva/internal/models"
	"yatraseva/internal/utils"
)

const EarthRadiusM = 6371000.0

// Point is a plain lat/lng pair used by the scorer.
type Point struct {
	Lat float64
	Lng float64
}

func (p Point) Valid() bool {
	return utils.IsValidCoordinates(p.Lat, p.Lng)
}

// Distance returns the great-circle distance between a and b in meters.
func Distance(a, b Point) float64 {
	if !a.Valid() || !b.Valid() {
		return 0
	}

	lat1 := a.Lat * math.Pi / 180
	lon1 := a.Lng * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	lon2 := b.Lng * math.Pi / 180

	dLat := lat2 - lat1
	dLon := lon2 - lon1

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusM * c
}

// Midpoint is the arithmetic midpoint, good enough at site scale.
func Midpoint(a, b Point) Point {
	return Point{
		Lat: (a.Lat + b.Lat) / 2,
		Lng: (a.Lng + b.Lng) / 2,
	}
}

// CongestionPenalty samples crowd density at the origin, midpoint and
// destination and turns the mean into a travel-time multiplier:
// 1.0 + 1.5 * meanDensity. With densities in [0, 1] the multiplier
// stays within [1.0, 2.5].
func CongestionPenalty(a, b Point, sampler DensitySampler) float64 {
	mid := Midpoint(a, b)
	mean := (sampler.Density(a) + sampler.Density(mid) + sampler.Density(b)) / 3
	return 1.0 + 1.5*mean
}

// BaseSpeed returns the nominal speed in m/s for a resource class.
// Fixed booths never move.
func BaseSpeed(t models.ResourceType) float64 {
	switch t {
	case models.ResourceTypeAmbulance:
		return utils.SpeedAmbulance
	case models.ResourceTypeFirstAidTeam:
		return utils.SpeedFirstAidTeam
	case models.ResourceTypeMedicalBooth:
		return utils.SpeedMedicalBooth
	default:
		return 0
	}
}

// EstimatedTime returns the travel time in seconds for a resource class
// over the given distance under the given congestion penalty. A zero
// return is a sentinel for "no usable estimate" (invalid geometry,
// immobile class); callers must not read it as instant arrival.
func EstimatedTime(distanceM, penalty float64, t models.ResourceType) float64 {
	if math.IsNaN(distanceM) || math.IsInf(distanceM, 0) || distanceM < 0 {
		return 0
	}
	if math.IsNaN(penalty) || math.IsInf(penalty, 0) || penalty <= 0 {
		return 0
	}

	speed := BaseSpeed(t) / penalty
	if speed <= 0 || math.IsNaN(speed) || math.IsInf(speed, 0) {
		return 0
	}

	return distanceM / speed
}

// RoutePoints returns the straight-line placeholder path [a, mid, b].
// The whole set is discarded when any coordinate is unusable.
func RoutePoints(a, b Point) []models.GeoPoint {
	if !a.Valid() || !b.Valid() {
		return nil
	}

	mid := Midpoint(a, b)
	return []models.GeoPoint{
		{Lat: a.Lat, Lng: a.Lng},
		{Lat: mid.Lat, Lng: mid.Lng},
		{Lat: b.Lat, Lng: b.Lng},
	}
}
