package repository

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/swift-ticket/internal/domain"
	"github.com/spec-kit/swift-ticket/internal/persistence"
)

// UserRepository persists the managed account collection as a whole.
type UserRepository interface {
	Load(ctx context.Context) ([]domain.ManagedUser, error)
	Save(ctx context.Context, users []domain.ManagedUser) error
}

type userRepository struct {
	snap snapshot[[]domain.ManagedUser]
}

// NewUserRepository builds the repository.
func NewUserRepository(store persistence.KVStore, logger *zap.Logger) UserRepository {
	return &userRepository{snap: snapshot[[]domain.ManagedUser]{store: store, key: persistence.KeyManagedUsers, logger: logger}}
}

// Load returns the stored accounts. On first run the bootstrap admin is seeded.
func (r *userRepository) Load(ctx context.Context) ([]domain.ManagedUser, error) {
	users, err := loadOrSeed(ctx, r.snap, domain.DefaultUsers)
	if users == nil {
		users = []domain.ManagedUser{}
	}
	return users, err
}

func (r *userRepository) Save(ctx context.Context, users []domain.ManagedUser) error {
	if users == nil {
		users = []domain.ManagedUser{}
	}
	return r.snap.save(ctx, users)
}
