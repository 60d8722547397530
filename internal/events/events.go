package events

import (
	"context"

	"yatraseva/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EventType string

const (
	EventIncidentUpdated  EventType = "incident_updated"
	EventResourceUpdated  EventType = "resource_updated"
	EventReporterNotified EventType = "reporter_notification"
	EventCapacityChanged  EventType = "capacity_changed"
	EventSlotLocked       EventType = "slot_locked"
	EventDensityAlert     EventType = "density_alert"
)

// Event is one state-change notification. Recipient nil means fan out
// to every connected dashboard; a set Recipient addresses that user's
// sessions only.
type Event struct {
	Type      EventType              `json:"type"`
	Recipient *primitive.ObjectID    `json:"recipient,omitempty"`
	Data      map[string]interface{} `json:"data"`
}

// Publisher delivers events best-effort, at-most-once, unordered across
// channels. Consumers reconcile via a full-state fetch on reconnect, so
// Publish never blocks the caller and never fails it.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

func IncidentUpdated(incident *models.Incident) Event {
	return Event{
		Type: EventIncidentUpdated,
		Data: map[string]interface{}{
			"incident_id": incident.ID.Hex(),
			"status":      incident.Status,
			"severity":    incident.Severity,
			"incident":    incident,
		},
	}
}

func ResourceUpdated(resource *models.Resource) Event {
	return Event{
		Type: EventResourceUpdated,
		Data: map[string]interface{}{
			"resource_id": resource.ID.Hex(),
			"status":      resource.Status,
			"resource":    resource,
		},
	}
}

func ReporterNotified(reporterID primitive.ObjectID, incidentID primitive.ObjectID, etaMinutes int, message string) Event {
	return Event{
		Type:      EventReporterNotified,
		Recipient: &reporterID,
		Data: map[string]interface{}{
			"incident_id": incidentID.Hex(),
			"eta_minutes": etaMinutes,
			"message":     message,
		},
	}
}

func CapacityChanged(slotID primitive.ObjectID, bookedCount int) Event {
	return Event{
		Type: EventCapacityChanged,
		Data: map[string]interface{}{
			"slot_id":      slotID.Hex(),
			"booked_count": bookedCount,
		},
	}
}

func SlotLocked(slot *models.Slot, reason string) Event {
	return Event{
		Type: EventSlotLocked,
		Data: map[string]interface{}{
			"slot_id":      slot.ID.Hex(),
			"booked_count": slot.BookedCount,
			"capacity":     slot.Capacity,
			"reason":       reason,
		},
	}
}

func DensityAlert(zone string, density float64) Event {
	return Event{
		Type: EventDensityAlert,
		Data: map[string]interface{}{
			"zone":    zone,
			"density": density,
		},
	}
}

// NopPublisher discards every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) {}
