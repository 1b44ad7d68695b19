package engine

import (
	"strings"
	"time"

	"github.com/spec-kit/swift-ticket/internal/domain"
)

// NewTicketInput describes a ticket about to be filed.
type NewTicketInput struct {
	ID            string
	MessageID     string
	Title         string
	Description   string
	UnitID        string
	SLALimitHours int
}

// NewTicket builds an OPEN ticket whose thread starts with the description.
func NewTicket(in NewTicketInput, author domain.AuthState, now time.Time) domain.Ticket {
	return domain.Ticket{
		ID:           in.ID,
		Title:        in.Title,
		Description:  in.Description,
		Status:       domain.TicketStatusOpen,
		UnitID:       in.UnitID,
		CreatedAt:    now,
		UserUsername: author.Username,
		LastUpdate:   now,
		Messages: []domain.Message{{
			ID:         in.MessageID,
			Sender:     domain.RoleUser,
			SenderName: author.Name,
			Text:       in.Description,
			Timestamp:  now,
		}},
		SLALimitHours: in.SLALimitHours,
	}
}

// StatusAfterMessage is the status a ticket takes once sender has written.
// A user message waits for staff; a staff message waits for the user.
func StatusAfterMessage(sender domain.UserRole) domain.TicketStatus {
	switch sender {
	case domain.RoleUser:
		return domain.TicketStatusPending
	case domain.RoleExpert, domain.RoleAdmin:
		return domain.TicketStatusOpen
	}
	return domain.TicketStatusOpen
}

// AppendMessage returns a copy of ticket with msg appended, lastUpdate set to
// now and the status moved per StatusAfterMessage. Closed tickets are never
// reopened by a message; ErrTicketClosed is returned instead.
func AppendMessage(ticket domain.Ticket, msg domain.Message, now time.Time) (domain.Ticket, error) {
	if ticket.Status == domain.TicketStatusClosed {
		return ticket, domain.ErrTicketClosed
	}
	if strings.TrimSpace(msg.Text) == "" && msg.Attachment == nil {
		return ticket, domain.ErrEmptyMessage
	}
	msg.Timestamp = now

	messages := make([]domain.Message, len(ticket.Messages), len(ticket.Messages)+1)
	copy(messages, ticket.Messages)
	ticket.Messages = append(messages, msg)
	ticket.LastUpdate = now
	ticket.Status = StatusAfterMessage(msg.Sender)
	return ticket, nil
}

// Close marks the ticket CLOSED. Calling it on a closed ticket changes nothing.
func Close(ticket domain.Ticket) domain.Ticket {
	ticket.Status = domain.TicketStatusClosed
	return ticket
}
