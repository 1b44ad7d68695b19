package repository

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/swift-ticket/internal/domain"
	"github.com/spec-kit/swift-ticket/internal/persistence"
)

// SessionRepository persists the single active AuthState.
type SessionRepository interface {
	Load(ctx context.Context) (domain.AuthState, error)
	Save(ctx context.Context, session domain.AuthState) error
}

type sessionRepository struct {
	snap snapshot[domain.AuthState]
}

// NewSessionRepository builds the repository.
func NewSessionRepository(store persistence.KVStore, logger *zap.Logger) SessionRepository {
	return &sessionRepository{snap: snapshot[domain.AuthState]{store: store, key: persistence.KeyAuth, logger: logger}}
}

// Load returns the stored session, or the logged-out default.
func (r *sessionRepository) Load(ctx context.Context) (domain.AuthState, error) {
	return loadOrSeed(ctx, r.snap, domain.LoggedOut)
}

func (r *sessionRepository) Save(ctx context.Context, session domain.AuthState) error {
	return r.snap.save(ctx, session)
}
