package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType is the action an event reports
type EventType string

const (
	EventTypeCreated   EventType = "created"
	EventTypeUpdated   EventType = "updated"
	EventTypeDeleted   EventType = "deleted"
	EventTypeAnalyzed  EventType = "analyzed"
	EventTypeGenerated EventType = "generated"
	EventTypeUploaded  EventType = "uploaded"
	EventTypePurged    EventType = "purged"
)

// EntityType is the kind of resource an event is about
type EntityType string

const (
	EntityTypeDeal   EntityType = "deal"
	EntityTypeReport EntityType = "report"
	EntityTypePhoto  EntityType = "photo"
)

// Event is the envelope delivered to browser sessions and to the event bus.
// Format: { type, entity, workspaceId, payload, timestamp }
type Event struct {
	Type        string      `json:"type"`   // e.g. "deal.analyzed"
	Entity      EntityType  `json:"entity"` // e.g. "deal"
	WorkspaceID int32       `json:"workspaceId,omitempty"`
	Payload     interface{} `json:"payload"`
	Timestamp   time.Time   `json:"timestamp"`
}

// NewEvent creates an event stamped with the current UTC time
func NewEvent(eventType EventType, entityType EntityType, payload interface{}) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func DealCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeDeal, payload)
}

func DealUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeDeal, payload)
}

func DealDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeDeal, payload)
}

// DealAnalyzed carries the deal with its fresh analysis snapshot
func DealAnalyzed(payload interface{}) Event {
	return NewEvent(EventTypeAnalyzed, EntityTypeDeal, payload)
}

// DealsPurged reports a retention sweep; it is not scoped to a workspace
func DealsPurged(payload interface{}) Event {
	return NewEvent(EventTypePurged, EntityTypeDeal, payload)
}

func ReportGenerated(payload interface{}) Event {
	return NewEvent(EventTypeGenerated, EntityTypeReport, payload)
}

func PhotoUploaded(payload interface{}) Event {
	return NewEvent(EventTypeUploaded, EntityTypePhoto, payload)
}
