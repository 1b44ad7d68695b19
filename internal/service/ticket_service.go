package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/swift-ticket/internal/config"
	"github.com/spec-kit/swift-ticket/internal/domain"
	"github.com/spec-kit/swift-ticket/internal/engine"
	"github.com/spec-kit/swift-ticket/internal/events"
	apperrors "github.com/spec-kit/swift-ticket/pkg/util/errorutil"
)

const previewLength = 120

// TicketService coordinates ticket workflows. Permission flags are checked by
// the HTTP layer; the service only scopes tickets by visibility.
type TicketService struct {
	state    *State
	events   publisher
	slaHours int
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
	UnitID      string
}

// MessageInput describes a reply.
type MessageInput struct {
	Text       string
	Attachment *domain.Attachment
}

// NewTicketService constructs the service.
func NewTicketService(cfg config.TicketConfig, state *State, dispatcher events.Dispatcher) *TicketService {
	return &TicketService{
		state:    state,
		events:   publisher{dispatcher: dispatcher, logger: state.logger, now: state.now},
		slaHours: cfg.SLADefaultHours,
	}
}

// CreateTicket files a ticket for identity and puts it at the head of the list.
func (s *TicketService) CreateTicket(ctx context.Context, identity domain.AuthState, input TicketCreateInput) (domain.Ticket, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	if input.Title == "" || input.Description == "" {
		return domain.Ticket{}, apperrors.NewValidationError("title and description are required", nil)
	}

	s.state.mu.Lock()
	unit, ok := domain.FindUnit(s.state.units, input.UnitID)
	if !ok || unit.Type != domain.UnitTypeSupport {
		s.state.mu.Unlock()
		return domain.Ticket{}, apperrors.NewValidationError("unknown support unit", map[string]any{"unitId": input.UnitID})
	}

	ticket := engine.NewTicket(engine.NewTicketInput{
		ID:            uuid.NewString(),
		MessageID:     uuid.NewString(),
		Title:         input.Title,
		Description:   input.Description,
		UnitID:        unit.ID,
		SLALimitHours: s.slaHours,
	}, identity, s.state.now())

	tickets := make([]domain.Ticket, 0, len(s.state.tickets)+1)
	tickets = append(tickets, ticket)
	tickets = append(tickets, s.state.tickets...)
	err := s.state.setTickets(ctx, tickets)
	s.state.mu.Unlock()
	if err != nil {
		return domain.Ticket{}, err
	}

	s.state.metrics.RecordTransition(string(ticket.Status), "created")
	s.state.logger.Info("ticket created", zap.String("ticket_id", ticket.ID), zap.String("unit_id", ticket.UnitID), zap.String("username", identity.Username))
	s.events.publish(ctx, events.Event{
		Type:    events.EventTicketCreated,
		Subject: ticket.ID,
		Actor:   actorOf(identity),
		Payload: events.TicketCreatedPayload{UnitID: ticket.UnitID, Title: ticket.Title},
	})
	return ticket, nil
}

// ListVisible returns the tickets identity may see, newest first, optionally
// narrowed to one status.
func (s *TicketService) ListVisible(identity domain.AuthState, status *domain.TicketStatus) []domain.Ticket {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	return engine.FilterByStatus(engine.VisibleTickets(s.state.tickets, identity), status)
}

// GetVisible returns one ticket if identity may see it.
func (s *TicketService) GetVisible(identity domain.AuthState, ticketID string) (domain.Ticket, error) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	idx, err := s.visibleIndex(identity, ticketID)
	if err != nil {
		return domain.Ticket{}, err
	}
	return s.state.tickets[idx], nil
}

// AddMessage appends a reply from identity and applies the status rule.
func (s *TicketService) AddMessage(ctx context.Context, identity domain.AuthState, ticketID string, input MessageInput) (domain.Ticket, error) {
	s.state.mu.Lock()
	idx, err := s.visibleIndex(identity, ticketID)
	if err != nil {
		s.state.mu.Unlock()
		return domain.Ticket{}, err
	}

	previous := s.state.tickets[idx]
	msg := domain.Message{
		ID:         uuid.NewString(),
		Sender:     identity.Role,
		SenderName: identity.Name,
		Text:       strings.TrimSpace(input.Text),
		Attachment: input.Attachment,
	}
	updated, err := engine.AppendMessage(previous, msg, s.state.now())
	if err != nil {
		s.state.mu.Unlock()
		return domain.Ticket{}, err
	}
	err = s.state.setTickets(ctx, replaceTicket(s.state.tickets, idx, updated))
	s.state.mu.Unlock()
	if err != nil {
		return domain.Ticket{}, err
	}

	added := updated.Messages[len(updated.Messages)-1]
	s.state.metrics.RecordTransition(string(updated.Status), "message")
	s.events.publish(ctx, events.Event{
		Type:    events.EventTicketMessageAdded,
		Subject: updated.ID,
		Actor:   actorOf(identity),
		Payload: events.TicketMessageAddedPayload{
			MessageID:     added.ID,
			Sender:        added.Sender,
			HasAttachment: added.Attachment != nil,
			BodyPreview:   stringPreview(added.Text, previewLength),
		},
	})
	if previous.Status != updated.Status {
		s.publishStatusChange(ctx, identity, previous, updated, "message")
	}
	return updated, nil
}

// CloseTicket marks a visible ticket CLOSED. Closing twice is harmless and
// emits nothing the second time.
func (s *TicketService) CloseTicket(ctx context.Context, identity domain.AuthState, ticketID string) (domain.Ticket, error) {
	s.state.mu.Lock()
	idx, err := s.visibleIndex(identity, ticketID)
	if err != nil {
		s.state.mu.Unlock()
		return domain.Ticket{}, err
	}
	previous := s.state.tickets[idx]
	if previous.Status == domain.TicketStatusClosed {
		s.state.mu.Unlock()
		return previous, nil
	}
	updated := engine.Close(previous)
	err = s.state.setTickets(ctx, replaceTicket(s.state.tickets, idx, updated))
	s.state.mu.Unlock()
	if err != nil {
		return domain.Ticket{}, err
	}

	s.state.metrics.RecordTransition(string(updated.Status), "closed")
	s.publishStatusChange(ctx, identity, previous, updated, "closed")
	return updated, nil
}

// visibleIndex must be called with mu held. Tickets outside the caller's
// visible set are reported as missing.
func (s *TicketService) visibleIndex(identity domain.AuthState, ticketID string) (int, error) {
	idx := domain.FindTicket(s.state.tickets, ticketID)
	if idx < 0 || !engine.CanSee(s.state.tickets[idx], identity) {
		return -1, apperrors.NewNotFound("ticket", map[string]any{"id": ticketID})
	}
	return idx, nil
}

func (s *TicketService) publishStatusChange(ctx context.Context, identity domain.AuthState, previous, updated domain.Ticket, trigger string) {
	s.state.logger.Info("ticket status changed",
		zap.String("ticket_id", updated.ID),
		zap.String("from", string(previous.Status)),
		zap.String("to", string(updated.Status)))
	s.events.publish(ctx, events.Event{
		Type:    events.EventTicketStatusChanged,
		Subject: updated.ID,
		Actor:   actorOf(identity),
		Payload: events.TicketStatusChangedPayload{
			OldStatus: previous.Status,
			NewStatus: updated.Status,
			Trigger:   trigger,
		},
	})
}

func replaceTicket(tickets []domain.Ticket, idx int, ticket domain.Ticket) []domain.Ticket {
	out := make([]domain.Ticket, len(tickets))
	copy(out, tickets)
	out[idx] = ticket
	return out
}

// Now is the clock tickets are stamped with.
func (s *TicketService) Now() time.Time {
	return s.state.now()
}
