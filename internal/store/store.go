package store

import (
	"context"
	"errors"

	"github.com/hoopdesk/gm-league-backend/internal/engine"
)

var ErrNotFound = errors.New("league not found")

// ErrCorruptState marks a persisted snapshot that no longer decodes. It is
// surfaced as-is, never silently repaired.
var ErrCorruptState = errors.New("corrupt league snapshot")

// ErrVersionConflict means the stored document is at least as new as the one
// being saved. The writer lost the race and must reload.
var ErrVersionConflict = errors.New("stale league version")

// Store persists one document per league, keyed by league id. Callers own
// the per-league serialization: load, run one engine operation, save.
type Store interface {
	Load(ctx context.Context, id string) (*engine.League, error)
	Save(ctx context.Context, l *engine.League) error
}
