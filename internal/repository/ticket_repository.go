package repository

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/swift-ticket/internal/domain"
	"github.com/spec-kit/swift-ticket/internal/persistence"
)

// TicketRepository persists the ticket collection, newest first, as a whole.
type TicketRepository interface {
	Load(ctx context.Context) ([]domain.Ticket, error)
	Save(ctx context.Context, tickets []domain.Ticket) error
}

type ticketRepository struct {
	snap snapshot[[]domain.Ticket]
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(store persistence.KVStore, logger *zap.Logger) TicketRepository {
	return &ticketRepository{snap: snapshot[[]domain.Ticket]{store: store, key: persistence.KeyTickets, logger: logger}}
}

func (r *ticketRepository) Load(ctx context.Context) ([]domain.Ticket, error) {
	tickets, err := loadOrSeed(ctx, r.snap, func() []domain.Ticket { return []domain.Ticket{} })
	if tickets == nil {
		tickets = []domain.Ticket{}
	}
	return tickets, err
}

func (r *ticketRepository) Save(ctx context.Context, tickets []domain.Ticket) error {
	if tickets == nil {
		tickets = []domain.Ticket{}
	}
	return r.snap.save(ctx, tickets)
}
