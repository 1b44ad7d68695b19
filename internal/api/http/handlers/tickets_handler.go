package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/swift-ticket/internal/api/dto"
	"github.com/spec-kit/swift-ticket/internal/domain"
	"github.com/spec-kit/swift-ticket/internal/service"
	apperrors "github.com/spec-kit/swift-ticket/pkg/util/errorutil"
)

// TicketsHandler serves the ticket endpoints for every role. What a caller
// sees is decided by the visibility rules inside the service.
type TicketsHandler struct {
	service   *service.TicketService
	directory *service.DirectoryService
	validator *Validator
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService, directory *service.DirectoryService, validator *Validator) *TicketsHandler {
	return &TicketsHandler{service: ticketService, directory: directory, validator: validator}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	identity, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.CreateTicketRequest
	if err := h.validator.Bind(c, &req); err != nil {
		return err
	}
	ticket, err := h.service.CreateTicket(c.UserContext(), identity, service.TicketCreateInput{
		Title:       req.Title,
		Description: req.Description,
		UnitID:      req.UnitID,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": ticketDetail(ticket, h.service.Now())})
}

// ListTickets GET /tickets?status=OPEN|PENDING|CLOSED|ALL.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	identity, err := principal(c)
	if err != nil {
		return err
	}
	status, err := parseStatusFilter(c.Query("status"))
	if err != nil {
		return err
	}
	tickets := h.service.ListVisible(identity, status)
	return c.JSON(fiber.Map{"data": ticketSummaries(tickets, h.service.Now())})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	identity, err := principal(c)
	if err != nil {
		return err
	}
	ticket, err := h.service.GetVisible(identity, param(c, "id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(ticket, h.service.Now())})
}

// AddMessage POST /tickets/:id/messages.
func (h *TicketsHandler) AddMessage(c *fiber.Ctx) error {
	identity, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.CreateMessageRequest
	if err := h.validator.Bind(c, &req); err != nil {
		return err
	}
	input := service.MessageInput{Text: req.Text}
	if req.Attachment != nil {
		input.Attachment = &domain.Attachment{Name: req.Attachment.Name, Type: req.Attachment.Type, URL: req.Attachment.URL}
	}
	ticket, err := h.service.AddMessage(c.UserContext(), identity, param(c, "id"), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": ticketDetail(ticket, h.service.Now())})
}

// CloseTicket POST /tickets/:id/close.
func (h *TicketsHandler) CloseTicket(c *fiber.Ctx) error {
	identity, err := principal(c)
	if err != nil {
		return err
	}
	ticket, err := h.service.CloseTicket(c.UserContext(), identity, param(c, "id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket, h.service.Now())})
}

// SupportUnits GET /units/support lists the units a ticket can be filed to.
func (h *TicketsHandler) SupportUnits(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": unitResponses(h.directory.SupportUnits())})
}

func parseStatusFilter(raw string) (*domain.TicketStatus, error) {
	raw = strings.ToUpper(strings.TrimSpace(raw))
	if raw == "" || raw == "ALL" {
		return nil, nil
	}
	status := domain.TicketStatus(raw)
	if !status.Valid() {
		return nil, apperrors.NewValidationError("status must be one of: ALL OPEN PENDING CLOSED", map[string]any{"status": raw})
	}
	return &status, nil
}
