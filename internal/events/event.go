// Package events defines the domain events exchanged between modules.
// Event types live here so modules can publish and subscribe without
// importing each other.
package events

import (
	"github.com/google/uuid"

	"clientbase/platform/events"
)

// Event and BaseEvent are re-exported from the platform layer.
type Event = events.Event

// BaseEvent provides the timestamp for all domain events.
type BaseEvent = events.BaseEvent

// NewBaseEvent creates a base event stamped with the current time.
func NewBaseEvent() BaseEvent {
	return events.NewBaseEvent()
}

// Bus is the event bus interface modules depend on.
type Bus = events.Bus

// Handler processes events of a specific type.
type Handler = events.Handler

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc = events.HandlerFunc

// CompanyRegistered fires when a new company account is created.
type CompanyRegistered struct {
	BaseEvent
	CompanyID   uuid.UUID
	CompanyName string
}

// EventName returns the event identifier.
func (e CompanyRegistered) EventName() string { return "company.registered" }

// ClientNumberPending fires when a client's WhatsApp number needs validation:
// on client creation, and whenever the number changes on update.
type ClientNumberPending struct {
	BaseEvent
	CompanyID uuid.UUID
	ClientID  uuid.UUID
}

// EventName returns the event identifier.
func (e ClientNumberPending) EventName() string { return "client.number_pending" }

// ClientNumberValidated fires after a lookup verdict has been persisted.
type ClientNumberValidated struct {
	BaseEvent
	CompanyID uuid.UUID
	ClientID  uuid.UUID
	Status    string
	E164      *string
}

// EventName returns the event identifier.
func (e ClientNumberValidated) EventName() string { return "client.number_validated" }

// BroadcastCompleted fires when a communications send finishes, with
// per-channel delivery counts.
type BroadcastCompleted struct {
	BaseEvent
	CompanyID uuid.UUID
	Channel   string
	Sent      int
	Failed    int
}

// EventName returns the event identifier.
func (e BroadcastCompleted) EventName() string { return "communications.broadcast_completed" }
