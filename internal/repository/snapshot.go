package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/swift-ticket/internal/persistence"
)

// snapshot reads and writes one JSON document stored under key.
type snapshot[T any] struct {
	store  persistence.KVStore
	key    string
	logger *zap.Logger
}

// snapshotState tells loadOrSeed what it found under the key.
type snapshotState int

const (
	snapshotMissing snapshotState = iota
	snapshotFound
	snapshotMalformed
)

// load decodes the stored document. A missing key (or a JSON null) returns
// fallback() and snapshotMissing. A document that does not decode is logged
// and fallback() is returned with snapshotMalformed; the stored bytes are left
// alone so they can be recovered by hand.
func (s snapshot[T]) load(ctx context.Context, fallback func() T) (value T, state snapshotState, err error) {
	raw, ok, err := s.store.Get(ctx, s.key)
	if err != nil {
		return value, snapshotMissing, fmt.Errorf("load %s: %w", s.key, err)
	}
	if !ok || strings.TrimSpace(raw) == "null" {
		return fallback(), snapshotMissing, nil
	}
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		s.logger.Warn("ignoring malformed snapshot",
			zap.String("key", s.key),
			zap.Int("raw_bytes", len(raw)),
			zap.Error(err))
		return fallback(), snapshotMalformed, nil
	}
	return value, snapshotFound, nil
}

func (s snapshot[T]) save(ctx context.Context, value T) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.key, err)
	}
	if err := s.store.Set(ctx, s.key, string(payload)); err != nil {
		return fmt.Errorf("save %s: %w", s.key, err)
	}
	return nil
}

// loadOrSeed loads the snapshot and writes the fallback back only when the
// key was missing. A malformed document stays in the store until the next
// mutation of that collection overwrites it.
func loadOrSeed[T any](ctx context.Context, s snapshot[T], fallback func() T) (T, error) {
	value, state, err := s.load(ctx, fallback)
	if err != nil {
		return value, err
	}
	if state == snapshotMissing {
		if err := s.save(ctx, value); err != nil {
			return value, err
		}
		s.logger.Info("seeded snapshot", zap.String("key", s.key))
	}
	return value, nil
}
