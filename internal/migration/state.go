package migration

import (
	"context"
	"fmt"
)

// Cache keys owned by the migration engine.
const (
	StateKey       = "budget-calculator-migrated"
	BackupPrefix   = "budget-calculator-backup-"
	BackupIndexKey = "budget-calculator-backups"
)

// State is the device-wide migration lifecycle flag.
type State string

const (
	StateUnset     State = "unset"
	StateCompleted State = "completed"
	StateSkipped   State = "skipped"
)

// Suppressed reports whether pending-data checks are turned off by this state.
func (s State) Suppressed() bool {
	return s == StateCompleted || s == StateSkipped
}

func parseState(raw string, ok bool) State {
	if !ok {
		return StateUnset
	}
	switch raw {
	case string(StateCompleted), "true":
		return StateCompleted
	case string(StateSkipped):
		return StateSkipped
	default:
		return StateUnset
	}
}

// State reads the persisted flag. A missing or unknown value reads as unset.
func (e *Engine) State(ctx context.Context) (State, error) {
	raw, ok, err := e.cache.Get(ctx, StateKey)
	if err != nil {
		return "", fmt.Errorf("read migration state: %w", err)
	}
	return parseState(raw, ok), nil
}

func (e *Engine) setState(ctx context.Context, s State) error {
	if s == StateUnset {
		return e.cache.Remove(ctx, StateKey)
	}
	return e.cache.Set(ctx, StateKey, string(s))
}
