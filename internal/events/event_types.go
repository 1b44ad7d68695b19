package events

import (
	"time"

	"github.com/spec-kit/swift-ticket/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketMessageAdded  EventType = "ticket_message_added"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventUnitCreated         EventType = "unit_created"
	EventUnitDeleted         EventType = "unit_deleted"
	EventUserCreated         EventType = "user_created"
	EventUserUpdated         EventType = "user_updated"
	EventUserDeleted         EventType = "user_deleted"
	EventSessionStarted      EventType = "session_started"
	EventSessionEnded        EventType = "session_ended"
)

// AllEventTypes lists every event type, for subscribers that want them all.
var AllEventTypes = []EventType{
	EventTicketCreated,
	EventTicketMessageAdded,
	EventTicketStatusChanged,
	EventUnitCreated,
	EventUnitDeleted,
	EventUserCreated,
	EventUserUpdated,
	EventUserDeleted,
	EventSessionStarted,
	EventSessionEnded,
}

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Username string          `json:"username"`
	Role     domain.UserRole `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Subject   string      `json:"subject"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	UnitID string `json:"unit_id"`
	Title  string `json:"title"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
	Trigger   string              `json:"trigger"`
}

// TicketMessageAddedPayload payload.
type TicketMessageAddedPayload struct {
	MessageID     string          `json:"message_id"`
	Sender        domain.UserRole `json:"sender"`
	HasAttachment bool            `json:"has_attachment"`
	BodyPreview   string          `json:"body_preview"`
}

// UnitPayload payload.
type UnitPayload struct {
	UnitID string          `json:"unit_id"`
	Name   string          `json:"name,omitempty"`
	Type   domain.UnitType `json:"type,omitempty"`
}

// UserPayload payload. Passwords never leave the service.
type UserPayload struct {
	Username       string             `json:"username"`
	Role           domain.UserRole    `json:"role,omitempty"`
	AssignedUnitID string             `json:"assigned_unit_id,omitempty"`
	Permissions    domain.Permissions `json:"permissions"`
}
