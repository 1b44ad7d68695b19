package service

import (
	"time"

	"github.com/spec-kit/swift-ticket/internal/config"
	"github.com/spec-kit/swift-ticket/internal/domain"
	"github.com/spec-kit/swift-ticket/internal/engine"
)

// Dashboard summarises the tickets visible to one identity.
type Dashboard struct {
	Counts      engine.StatusCounts
	Units       []engine.UnitCounts
	Recent      []domain.Ticket
	GeneratedAt time.Time
}

// DashboardService builds the admin panel overview.
type DashboardService struct {
	state       *State
	recentLimit int
}

// NewDashboardService builds the service.
func NewDashboardService(cfg config.TicketConfig, state *State) *DashboardService {
	return &DashboardService{state: state, recentLimit: cfg.RecentLimit}
}

// Build computes the overview for identity. Unit rows only count tickets the
// identity can see.
func (s *DashboardService) Build(identity domain.AuthState) Dashboard {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	visible := engine.VisibleTickets(s.state.tickets, identity)
	return Dashboard{
		Counts:      engine.CountByStatus(visible),
		Units:       engine.CountBySupportUnit(visible, s.state.units),
		Recent:      engine.Recent(visible, s.recentLimit),
		GeneratedAt: s.state.now(),
	}
}
