package repository

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/swift-ticket/internal/domain"
	"github.com/spec-kit/swift-ticket/internal/persistence"
)

// UnitRepository persists the unit collection as a whole.
type UnitRepository interface {
	Load(ctx context.Context) ([]domain.Unit, error)
	Save(ctx context.Context, units []domain.Unit) error
}

type unitRepository struct {
	snap snapshot[[]domain.Unit]
}

// NewUnitRepository builds the repository.
func NewUnitRepository(store persistence.KVStore, logger *zap.Logger) UnitRepository {
	return &unitRepository{snap: snapshot[[]domain.Unit]{store: store, key: persistence.KeyUnits, logger: logger}}
}

// Load returns the stored units, seeding the default units on first run.
func (r *unitRepository) Load(ctx context.Context) ([]domain.Unit, error) {
	units, err := loadOrSeed(ctx, r.snap, domain.DefaultUnits)
	if units == nil {
		units = []domain.Unit{}
	}
	return units, err
}

func (r *unitRepository) Save(ctx context.Context, units []domain.Unit) error {
	if units == nil {
		units = []domain.Unit{}
	}
	return r.snap.save(ctx, units)
}
