package models

import (
	"time"
)

// Location is stored as a GeoJSON point so Mongo geo indexes keep working.
type Location struct {
	Type        string    `json:"type" bson:"type" default:"Point"`
	Coordinates []float64 `json:"coordinates" bson:"coordinates" validate:"required,len=2"`
	Zone        string    `json:"zone" bson:"zone"`
	Address     string    `json:"address" bson:"address"`
	Timestamp   time.Time `json:"timestamp" bson:"timestamp"`
}

func (l Location) Latitude() float64 {
	if len(l.Coordinates) >= 2 {
		return l.Coordinates[1]
	}
	return 0
}

func (l Location) Longitude() float64 {
	if len(l.Coordinates) >= 1 {
		return l.Coordinates[0]
	}
	return 0
}

func NewLocation(lat, lng float64, zone string) Location {
	return Location{
		Type:        "Point",
		Coordinates: []float64{lng, lat},
		Zone:        zone,
		Timestamp:   time.Now(),
	}
}
