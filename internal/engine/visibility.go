// Package engine holds the ticket rules: who may see which tickets and how a
// ticket's status moves when messages arrive or it is closed. Everything here
// is pure; callers own the collections and persistence.
package engine

import "github.com/spec-kit/swift-ticket/internal/domain"

// VisibleTickets returns the tickets identity may enumerate, in input order.
//
// Rules are evaluated top to bottom and the first match decides:
//  1. USER sees only own tickets, whatever the permission flags say.
//  2. Staff without canView sees nothing.
//  3. ADMIN sees everything.
//  4. EXPERT sees the assigned unit's tickets, or everything when unassigned.
//  5. Anything else sees nothing.
func VisibleTickets(tickets []domain.Ticket, identity domain.AuthState) []domain.Ticket {
	visible := make([]domain.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if CanSee(t, identity) {
			visible = append(visible, t)
		}
	}
	return visible
}

// CanSee applies the visibility rules to a single ticket.
func CanSee(ticket domain.Ticket, identity domain.AuthState) bool {
	if identity.Role == domain.RoleUser {
		return ticket.UserUsername == identity.Username
	}
	if !identity.Permissions.CanView {
		return false
	}
	switch identity.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleExpert:
		if identity.AssignedUnitID != "" {
			return ticket.UnitID == identity.AssignedUnitID
		}
		return true
	case domain.RoleUser:
		// handled above
	}
	return false
}

// FilterByStatus keeps tickets with the given status. A nil status keeps all.
func FilterByStatus(tickets []domain.Ticket, status *domain.TicketStatus) []domain.Ticket {
	if status == nil {
		return tickets
	}
	filtered := make([]domain.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if t.Status == *status {
			filtered = append(filtered, t)
		}
	}
	return filtered
}
