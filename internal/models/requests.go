package models

import (
	"time"
)

type ReportIncidentRequest struct {
	Type        IncidentType     `json:"type" validate:"required"`
	Severity    IncidentSeverity `json:"severity" validate:"required"`
	Description string           `json:"description"`
	Location    string           `json:"location" validate:"required"`
	Zone        string           `json:"zone"`
}

type DispatchRequest struct {
	ResourceID string `json:"resource_id,omitempty"`
	AutoRoute  bool   `json:"auto_route"`
}

type StatusUpdateRequest struct {
	Status     IncidentStatus `json:"status" validate:"required"`
	ResourceID string         `json:"resource_id,omitempty"`
	Notes      string         `json:"notes,omitempty"`
	Location   *GeoPoint      `json:"location,omitempty"`
}

type CreateResourceRequest struct {
	Name string       `json:"name" validate:"required"`
	Type ResourceType `json:"type" validate:"required"`
	Lat  float64      `json:"lat" validate:"required"`
	Lng  float64      `json:"lng" validate:"required"`
	Zone string       `json:"zone"`
}

type CreateSlotRequest struct {
	Date      time.Time `json:"date" validate:"required"`
	StartTime string    `json:"start_time" validate:"required"`
	EndTime   string    `json:"end_time" validate:"required"`
	Zone      string    `json:"zone"`
	Capacity  int       `json:"capacity" validate:"required,gt=0"`
}

type CreateBookingRequest struct {
	SlotID  string          `json:"slot_id" validate:"required"`
	Members []BookingMember `json:"members" validate:"dive"`
}

// SlotAvailability is the booking-UI view of a slot.
type SlotAvailability struct {
	Slot      *Slot `json:"slot"`
	Remaining int   `json:"remaining"`
}
