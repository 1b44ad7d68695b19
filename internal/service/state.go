package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/swift-ticket/internal/domain"
	"github.com/spec-kit/swift-ticket/internal/observability"
	"github.com/spec-kit/swift-ticket/internal/persistence"
	"github.com/spec-kit/swift-ticket/internal/repository"
	apperrors "github.com/spec-kit/swift-ticket/pkg/util/errorutil"
)

// State owns the four collections of the application. Every service works on
// the same State; one mutex serialises all reads and writes. Mutations
// replace a collection with a fresh slice and flush it in full.
type State struct {
	mu      sync.Mutex
	units   []domain.Unit
	users   []domain.ManagedUser
	session domain.AuthState
	tickets []domain.Ticket

	unitRepo    repository.UnitRepository
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	ticketRepo  repository.TicketRepository

	logger  *zap.Logger
	metrics *observability.Metrics
	now     func() time.Time
}

// StateDependencies bundles what LoadState needs.
type StateDependencies struct {
	UnitRepo    repository.UnitRepository
	UserRepo    repository.UserRepository
	SessionRepo repository.SessionRepository
	TicketRepo  repository.TicketRepository
	Logger      *zap.Logger
	Metrics     *observability.Metrics
	Clock       func() time.Time
}

// LoadState reads every collection once, seeding defaults for missing keys.
func LoadState(ctx context.Context, deps StateDependencies) (*State, error) {
	s := &State{
		unitRepo:    deps.UnitRepo,
		userRepo:    deps.UserRepo,
		sessionRepo: deps.SessionRepo,
		ticketRepo:  deps.TicketRepo,
		logger:      deps.Logger,
		metrics:     deps.Metrics,
		now:         deps.Clock,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}

	var err error
	if s.units, err = s.unitRepo.Load(ctx); err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	if s.users, err = s.userRepo.Load(ctx); err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	if s.session, err = s.sessionRepo.Load(ctx); err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	if s.tickets, err = s.ticketRepo.Load(ctx); err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}

	s.logger.Info("state loaded",
		zap.Int("units", len(s.units)),
		zap.Int("users", len(s.users)),
		zap.Int("tickets", len(s.tickets)),
		zap.Bool("session_active", s.session.IsLoggedIn))
	return s, nil
}

// The set* helpers must be called with mu held. The in-memory value is
// replaced before the flush and kept when the flush fails.

func (s *State) setUnits(ctx context.Context, units []domain.Unit) error {
	s.units = units
	return s.flush(ctx, persistence.KeyUnits, func(ctx context.Context) error {
		return s.unitRepo.Save(ctx, units)
	})
}

func (s *State) setUsers(ctx context.Context, users []domain.ManagedUser) error {
	s.users = users
	return s.flush(ctx, persistence.KeyManagedUsers, func(ctx context.Context) error {
		return s.userRepo.Save(ctx, users)
	})
}

func (s *State) setSession(ctx context.Context, session domain.AuthState) error {
	s.session = session
	return s.flush(ctx, persistence.KeyAuth, func(ctx context.Context) error {
		return s.sessionRepo.Save(ctx, session)
	})
}

func (s *State) setTickets(ctx context.Context, tickets []domain.Ticket) error {
	s.tickets = tickets
	return s.flush(ctx, persistence.KeyTickets, func(ctx context.Context) error {
		return s.ticketRepo.Save(ctx, tickets)
	})
}

func (s *State) flush(ctx context.Context, key string, save func(context.Context) error) error {
	if err := save(ctx); err != nil {
		s.metrics.RecordFlushFailure(key)
		s.logger.Error("state flush failed", zap.String("key", key), zap.Error(err))
		return apperrors.NewInternalError(err)
	}
	s.logger.Debug("state flushed", zap.String("key", key))
	return nil
}
