package migration

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/budget-sync/internal/local"
	"github.com/carson-networks/budget-sync/internal/operator"
	"github.com/carson-networks/budget-sync/internal/operator/actions"
	"github.com/carson-networks/budget-sync/internal/record"
)

// idNamespace seeds the ids minted for staged records that never got one.
var idNamespace = uuid.Must(uuid.FromString("6f1c3f7e-5b0e-4d8a-9a53-4f3b1c2d9e10"))

// Engine moves staged local records into the remote store once per device.
type Engine struct {
	cache  local.ICache
	ops    operator.IProcessor
	logger *logrus.Logger
	now    func() time.Time
}

func NewEngine(cache local.ICache, ops operator.IProcessor, logger *logrus.Logger) *Engine {
	return &Engine{
		cache:  cache,
		ops:    ops,
		logger: logger,
		now:    time.Now,
	}
}

// readPayload returns the raw payload and its records. Missing and malformed payloads
// both come back as no records.
func (e *Engine) readPayload(ctx context.Context) (string, []local.LocalRecord, error) {
	raw, ok, err := e.cache.Get(ctx, local.RecordsKey)
	if err != nil {
		return "", nil, fmt.Errorf("read local records: %w", err)
	}
	if !ok {
		return "", nil, nil
	}
	records, err := local.ParseRecords(raw)
	if errors.Is(err, local.ErrMalformed) {
		e.logger.WithError(err).Warn("migration: local payload is malformed, treating as empty")
		return raw, nil, nil
	}
	if err != nil {
		return "", nil, err
	}
	return raw, records, nil
}

// PendingCount returns how many staged records would be migrated, or 0 when the state
// suppresses migration.
func (e *Engine) PendingCount(ctx context.Context) (int, error) {
	state, err := e.State(ctx)
	if err != nil {
		return 0, err
	}
	if state.Suppressed() {
		return 0, nil
	}
	_, records, err := e.readPayload(ctx)
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

// CheckPending reports whether there are staged records and no migration has run or
// been skipped.
func (e *Engine) CheckPending(ctx context.Context) (bool, error) {
	n, err := e.PendingCount(ctx)
	return n > 0, err
}

// Migrate upserts every staged record for ownerID and returns how many rows were
// written. On a remote failure nothing local changes and the call can be repeated.
// The staged payload itself is never removed here.
func (e *Engine) Migrate(ctx context.Context, ownerID string) (int, error) {
	if ownerID == "" {
		return 0, record.ErrNotAuthenticated
	}

	logger := e.logger.WithField("ownerID", ownerID)

	state, err := e.State(ctx)
	if err != nil {
		return 0, err
	}
	if state.Suppressed() {
		logger.WithField("state", state).Info("migration.Migrate: already settled")
		return 0, nil
	}

	raw, staged, err := e.readPayload(ctx)
	if err != nil {
		return 0, err
	}
	if len(staged) == 0 {
		if err := e.setState(ctx, StateCompleted); err != nil {
			return 0, err
		}
		logger.Info("migration.Migrate: nothing to migrate")
		return 0, nil
	}

	records, err := e.toRemote(ownerID, staged)
	if err != nil {
		return 0, err
	}

	start := time.Now()
	upsert := &actions.UpsertRecords{Records: records}
	if err := e.ops.Process(ctx, upsert); err != nil {
		logger.WithError(err).Error("migration.Migrate: upsert failed")
		return 0, &record.RemoteWriteError{Op: "upsert", Err: err}
	}

	key, err := e.writeBackup(ctx, raw)
	if err != nil {
		return 0, err
	}
	if err := e.setState(ctx, StateCompleted); err != nil {
		return 0, err
	}

	logger.WithFields(logrus.Fields{
		"staged":   len(records),
		"written":  upsert.Written,
		"backup":   key,
		"duration": time.Since(start).String(),
	}).Info("migration.Migrate: completed")
	return upsert.Written, nil
}

// toRemote maps staged records to remote rows. A payload that repeats an id yields a
// single row holding the last occurrence, at the position the id first appeared.
func (e *Engine) toRemote(ownerID string, staged []local.LocalRecord) ([]*record.Record, error) {
	today := record.TruncateDate(e.now())
	records := make([]*record.Record, 0, len(staged))
	seen := make(map[string]int, len(staged))
	for i, lr := range staged {
		date, err := lr.ParseDate()
		if err != nil {
			return nil, err
		}
		if date.IsZero() {
			date = today
		}
		category := lr.Category
		if category == "" {
			category = record.Uncategorized
		}
		id := lr.ID
		if id == "" {
			id = stableID(ownerID, i, lr)
		}
		r := &record.Record{
			ID:          id,
			OwnerID:     ownerID,
			Description: lr.Description,
			Amount:      lr.Amount,
			Category:    category,
			Kind:        lr.Type,
			Date:        record.TruncateDate(date),
		}
		if at, ok := seen[id]; ok {
			records[at] = r
			continue
		}
		seen[id] = len(records)
		records = append(records, r)
	}
	return records, nil
}

// stableID derives an id for a staged record without one, so retrying a migration of
// the same payload writes the same rows.
func stableID(ownerID string, position int, lr local.LocalRecord) string {
	name := ownerID + "/" + strconv.Itoa(position) + "/" + lr.Description + "/" +
		lr.Amount.String() + "/" + string(lr.Type) + "/" + lr.Category + "/" + lr.Date
	return uuid.NewV5(idNamespace, name).String()
}

// Skip records that the user declined to migrate. The remote store is not touched.
func (e *Engine) Skip(ctx context.Context) error {
	state, err := e.State(ctx)
	if err != nil {
		return err
	}
	if state == StateCompleted {
		return fmt.Errorf("%w: migration already completed", ErrInvalidTransition)
	}
	return e.setState(ctx, StateSkipped)
}

// Reset forces the state back to unset.
func (e *Engine) Reset(ctx context.Context) error {
	return e.setState(ctx, StateUnset)
}

// ClearLocalData deletes the staged payload and the state flag. Backups are kept.
func (e *Engine) ClearLocalData(ctx context.Context) error {
	if err := e.cache.Remove(ctx, local.RecordsKey); err != nil {
		return err
	}
	if err := e.setState(ctx, StateUnset); err != nil {
		return err
	}
	e.logger.Warn("migration.ClearLocalData: local records removed")
	return nil
}

// ErrInvalidTransition is returned for a state change the lifecycle does not allow.
var ErrInvalidTransition = errors.New("invalid migration state transition")
