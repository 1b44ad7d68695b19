package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen    TicketStatus = "OPEN"
	TicketStatusPending TicketStatus = "PENDING"
	TicketStatusClosed  TicketStatus = "CLOSED"
)

// TicketStatuses lists every status in display order.
var TicketStatuses = []TicketStatus{TicketStatusOpen, TicketStatusPending, TicketStatusClosed}

// Valid reports whether s is a known status.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusPending, TicketStatusClosed:
		return true
	}
	return false
}

// UnmarshalJSON rejects unknown statuses.
func (s *TicketStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if !TicketStatus(raw).Valid() {
		return fmt.Errorf("unknown ticket status %q", raw)
	}
	*s = TicketStatus(raw)
	return nil
}

// Ticket is the aggregate for support requests. Messages is never empty:
// the description is the first message.
type Ticket struct {
	ID            string       `json:"id"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	Status        TicketStatus `json:"status"`
	UnitID        string       `json:"unitId"`
	CreatedAt     time.Time    `json:"createdAt"`
	UserUsername  string       `json:"userUsername"`
	LastUpdate    time.Time    `json:"lastUpdate"`
	Messages      []Message    `json:"messages"`
	SLALimitHours int          `json:"slaLimitHours"`
}

// FindTicket returns the index of the ticket with the given id, or -1.
func FindTicket(tickets []Ticket, id string) int {
	for i := range tickets {
		if tickets[i].ID == id {
			return i
		}
	}
	return -1
}
