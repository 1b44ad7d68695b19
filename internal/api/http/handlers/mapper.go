package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/spec-kit/swift-ticket/internal/api/dto"
	"github.com/spec-kit/swift-ticket/internal/auth"
	"github.com/spec-kit/swift-ticket/internal/domain"
	"github.com/spec-kit/swift-ticket/internal/engine"
	"github.com/spec-kit/swift-ticket/internal/service"
	apperrors "github.com/spec-kit/swift-ticket/pkg/util/errorutil"
)

func principal(c *fiber.Ctx) (domain.AuthState, error) {
	p, ok := auth.PrincipalFromContext(c)
	if !ok {
		return domain.AuthState{}, apperrors.NewUnauthorized("login required")
	}
	return p, nil
}

// param copies a route parameter out of the request buffer, which fasthttp
// reuses once the handler returns. Services keep ids in events that are
// delivered later.
func param(c *fiber.Ctx, name string) string {
	return utils.CopyString(c.Params(name))
}

func permissionsDTO(p domain.Permissions) dto.PermissionsDTO {
	return dto.PermissionsDTO{
		CanView:      p.CanView,
		CanReply:     p.CanReply,
		CanCreate:    p.CanCreate,
		IsAdminPanel: p.IsAdminPanel,
	}
}

func sessionResponse(profile service.Profile) dto.SessionResponse {
	s := profile.Session
	return dto.SessionResponse{
		IsLoggedIn:       s.IsLoggedIn,
		Username:         s.Username,
		Name:             s.Name,
		Phone:            s.Phone,
		Role:             string(s.Role),
		AssignedUnitID:   s.AssignedUnitID,
		AssignedUnitName: profile.UnitName,
		Permissions:      permissionsDTO(s.Permissions),
		LoggedInAt:       s.LoggedInAt,
	}
}

func ticketSummary(t domain.Ticket, now time.Time) dto.TicketSummary {
	return dto.TicketSummary{
		ID:            t.ID,
		Title:         t.Title,
		Status:        string(t.Status),
		UnitID:        t.UnitID,
		UserUsername:  t.UserUsername,
		CreatedAt:     t.CreatedAt,
		LastUpdate:    t.LastUpdate,
		LastUpdateAgo: engine.TimeAgo(t.LastUpdate, now),
		MessageCount:  len(t.Messages),
		SLALimitHours: t.SLALimitHours,
	}
}

func ticketSummaries(tickets []domain.Ticket, now time.Time) []dto.TicketSummary {
	items := make([]dto.TicketSummary, 0, len(tickets))
	for _, t := range tickets {
		items = append(items, ticketSummary(t, now))
	}
	return items
}

func ticketDetail(t domain.Ticket, now time.Time) dto.TicketDetailResponse {
	msgs := make([]dto.MessageResponse, 0, len(t.Messages))
	for _, m := range t.Messages {
		msgs = append(msgs, messageResponse(m))
	}
	return dto.TicketDetailResponse{
		TicketSummary: ticketSummary(t, now),
		Description:   t.Description,
		Messages:      msgs,
	}
}

func messageResponse(m domain.Message) dto.MessageResponse {
	resp := dto.MessageResponse{
		ID:         m.ID,
		Sender:     string(m.Sender),
		SenderName: m.SenderName,
		Text:       m.Text,
		Timestamp:  m.Timestamp,
	}
	if m.Attachment != nil {
		resp.Attachment = &dto.AttachmentResponse{Name: m.Attachment.Name, Type: m.Attachment.Type, URL: m.Attachment.URL}
	}
	return resp
}

func unitResponse(u domain.Unit) dto.UnitResponse {
	return dto.UnitResponse{ID: u.ID, Name: u.Name, Type: string(u.Type)}
}

func unitResponses(units []domain.Unit) []dto.UnitResponse {
	items := make([]dto.UnitResponse, 0, len(units))
	for _, u := range units {
		items = append(items, unitResponse(u))
	}
	return items
}

func userResponse(u domain.ManagedUser) dto.UserResponse {
	return dto.UserResponse{
		Username:       u.Username,
		Name:           u.Name,
		Phone:          u.Phone,
		Role:           string(u.Role),
		AssignedUnitID: u.AssignedUnitID,
		Permissions:    permissionsDTO(u.Permissions),
	}
}

func statusCounts(c engine.StatusCounts) dto.StatusCounts {
	return dto.StatusCounts{Total: c.Total, Open: c.Open, Pending: c.Pending, Closed: c.Closed}
}
