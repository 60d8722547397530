package geo

import (
	"testing"

	"yatraseva/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKnownValues(t *testing.T) {
	ujjain := Point{Lat: 23.1793, Lng: 75.7849}
	indore := Point{Lat: 22.7196, Lng: 75.8577}

	// ~51.5km by great circle
	d := Distance(ujjain, indore)
	assert.InDelta(t, 51500, d, 1000)

	// one degree of latitude is ~111.2km
	d = Distance(Point{Lat: 0, Lng: 0}, Point{Lat: 1, Lng: 0})
	assert.InDelta(t, 111195, d, 100)

	assert.Zero(t, Distance(ujjain, ujjain))
}

func TestDistanceInvalidCoordinates(t *testing.T) {
	valid := Point{Lat: 23.1793, Lng: 75.7849}

	assert.Zero(t, Distance(valid, Point{Lat: 91, Lng: 0}))
	assert.Zero(t, Distance(Point{Lat: 0, Lng: 181}, valid))
}

func TestMidpoint(t *testing.T) {
	mid := Midpoint(Point{Lat: 10, Lng: 20}, Point{Lat: 20, Lng: 40})
	assert.Equal(t, Point{Lat: 15, Lng: 30}, mid)
}

func TestCongestionPenaltyBounds(t *testing.T) {
	a := Point{Lat: 23.18, Lng: 75.77}
	b := Point{Lat: 23.19, Lng: 75.78}

	assert.InDelta(t, 1.0, CongestionPenalty(a, b, FixedSampler{Value: 0}), 1e-9)
	assert.InDelta(t, 1.75, CongestionPenalty(a, b, FixedSampler{Value: 0.5}), 1e-9)
	assert.InDelta(t, 2.5, CongestionPenalty(a, b, FixedSampler{Value: 1}), 1e-9)
}

func TestRandomSamplerRange(t *testing.T) {
	sampler := NewRandomSampler(42)
	for i := 0; i < 1000; i++ {
		d := sampler.Density(Point{})
		assert.GreaterOrEqual(t, d, 0.3)
		assert.Less(t, d, 0.7)
	}
}

func TestRandomSamplerDeterministicBySeed(t *testing.T) {
	a := NewRandomSampler(7)
	b := NewRandomSampler(7)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Density(Point{}), b.Density(Point{}))
	}
}

func TestEstimatedTime(t *testing.T) {
	// 1500m for an ambulance at 15 m/s under no congestion
	assert.InDelta(t, 100, EstimatedTime(1500, 1.0, models.ResourceTypeAmbulance), 1e-9)

	// penalty halves effective speed
	assert.InDelta(t, 200, EstimatedTime(1500, 2.0, models.ResourceTypeAmbulance), 1e-9)

	// on foot
	assert.InDelta(t, 1000, EstimatedTime(1500, 1.0, models.ResourceTypeFirstAidTeam), 1e-9)
}

func TestEstimatedTimeSentinels(t *testing.T) {
	// booths never move
	assert.Zero(t, EstimatedTime(1500, 1.0, models.ResourceTypeMedicalBooth))

	assert.Zero(t, EstimatedTime(-1, 1.0, models.ResourceTypeAmbulance))
	assert.Zero(t, EstimatedTime(1500, 0, models.ResourceTypeAmbulance))
	assert.Zero(t, EstimatedTime(1500, -2, models.ResourceTypeAmbulance))
}

func TestRoutePoints(t *testing.T) {
	a := Point{Lat: 23.18, Lng: 75.77}
	b := Point{Lat: 23.20, Lng: 75.79}

	points := RoutePoints(a, b)
	if assert.Len(t, points, 3) {
		assert.Equal(t, models.GeoPoint{Lat: a.Lat, Lng: a.Lng}, points[0])
		assert.InDelta(t, 23.19, points[1].Lat, 1e-9)
		assert.InDelta(t, 75.78, points[1].Lng, 1e-9)
		assert.Equal(t, models.GeoPoint{Lat: b.Lat, Lng: b.Lng}, points[2])
	}

	assert.Nil(t, RoutePoints(a, Point{Lat: 100, Lng: 0}))
}
