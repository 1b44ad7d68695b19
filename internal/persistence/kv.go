// Package persistence provides the key-value string stores that hold the
// application snapshots, one JSON document per key.
package persistence

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/swift-ticket/internal/config"
)

// Snapshot keys. Each holds one whole collection (or the session) as JSON.
const (
	KeyAuth         = "auth"
	KeyTickets      = "tickets"
	KeyManagedUsers = "managedUsers"
	KeyUnits        = "units"
)

// KVStore is a string key-value store. Get reports found=false for a key that
// was never written.
type KVStore interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Ping(ctx context.Context) error
	Close() error
}

// Open connects the store selected by cfg.Store.Driver.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (KVStore, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		logger.Warn("using in-memory store; data is lost on restart")
		return NewMemoryStore(), nil
	case config.StoreDriverRedis:
		r, err := NewRedis(ctx, cfg.Redis, logger)
		if err != nil {
			return nil, err
		}
		return r, nil
	case config.StoreDriverPostgres:
		pg, err := NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, err
		}
		if cfg.Postgres.RunMigrations {
			if err := RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				pg.Close()
				return nil, err
			}
		}
		return pg, nil
	case config.StoreDriverMongo:
		m, err := NewMongo(ctx, cfg.Mongo, logger)
		if err != nil {
			return nil, err
		}
		return m, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}
