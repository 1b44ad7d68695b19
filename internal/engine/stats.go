package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/spec-kit/swift-ticket/internal/domain"
)

// StatusCounts tallies tickets per status.
type StatusCounts struct {
	Total   int `json:"total"`
	Open    int `json:"open"`
	Pending int `json:"pending"`
	Closed  int `json:"closed"`
}

// UnitCounts is StatusCounts for one support unit.
type UnitCounts struct {
	UnitID   string `json:"unitId"`
	UnitName string `json:"unitName"`
	StatusCounts
}

// CountByStatus tallies the given tickets.
func CountByStatus(tickets []domain.Ticket) StatusCounts {
	counts := StatusCounts{Total: len(tickets)}
	for _, t := range tickets {
		switch t.Status {
		case domain.TicketStatusOpen:
			counts.Open++
		case domain.TicketStatusPending:
			counts.Pending++
		case domain.TicketStatusClosed:
			counts.Closed++
		}
	}
	return counts
}

// CountBySupportUnit tallies tickets for every SUPPORT unit, in unit order.
// Tickets whose unit no longer exists are not attributed to any row.
func CountBySupportUnit(tickets []domain.Ticket, units []domain.Unit) []UnitCounts {
	rows := make([]UnitCounts, 0, len(units))
	for _, u := range units {
		if u.Type != domain.UnitTypeSupport {
			continue
		}
		var unitTickets []domain.Ticket
		for _, t := range tickets {
			if t.UnitID == u.ID {
				unitTickets = append(unitTickets, t)
			}
		}
		rows = append(rows, UnitCounts{UnitID: u.ID, UnitName: u.Name, StatusCounts: CountByStatus(unitTickets)})
	}
	return rows
}

// Recent returns at most n tickets from the head of the list.
func Recent(tickets []domain.Ticket, n int) []domain.Ticket {
	if n < 0 {
		n = 0
	}
	if len(tickets) <= n {
		return tickets
	}
	return tickets[:n]
}

// TimeAgo renders the distance between then and now the way the ticket
// list shows it: the distance is cut to whole seconds and the largest unit
// with more than one whole step wins.
func TimeAgo(then, now time.Time) string {
	seconds := math.Floor(now.Sub(then).Seconds())
	if seconds < 60 {
		return "just now"
	}
	steps := []struct {
		seconds float64
		unit    string
	}{
		{31536000, "year"},
		{2592000, "month"},
		{86400, "day"},
		{3600, "hour"},
		{60, "minute"},
	}
	for _, step := range steps {
		if n := seconds / step.seconds; n > 1 {
			whole := int(n)
			if whole == 1 {
				return fmt.Sprintf("1 %s ago", step.unit)
			}
			return fmt.Sprintf("%d %ss ago", whole, step.unit)
		}
	}
	return "just now"
}
