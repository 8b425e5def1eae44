package local

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-sync/internal/record"
)

// Ledger stages records in the local cache while no user is signed in.
type Ledger struct {
	cache ICache
	now   func() time.Time
}

func NewLedger(cache ICache) *Ledger {
	return &Ledger{cache: cache, now: time.Now}
}

// List returns the staged records. A missing or malformed payload reads as empty.
func (l *Ledger) List(ctx context.Context) ([]LocalRecord, error) {
	raw, ok, err := l.cache.Get(ctx, RecordsKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	records, err := ParseRecords(raw)
	if errors.Is(err, ErrMalformed) {
		return nil, nil
	}
	return records, err
}

// Stage appends a record to the local payload, giving it an id and a date when missing.
// A malformed payload is not overwritten; staging into it fails instead.
func (l *Ledger) Stage(ctx context.Context, r LocalRecord) (LocalRecord, error) {
	if !r.Type.Valid() {
		return LocalRecord{}, fmt.Errorf("%w: unknown type %q", record.ErrInvalidRecord, r.Type)
	}
	if r.Amount.IsNegative() {
		return LocalRecord{}, fmt.Errorf("%w: amount must not be negative", record.ErrInvalidRecord)
	}
	if _, err := r.ParseDate(); err != nil {
		return LocalRecord{}, fmt.Errorf("%w: %v", record.ErrInvalidRecord, err)
	}
	if r.ID == "" {
		r.ID = uuid.Must(uuid.NewV4()).String()
	}
	if r.Date == "" {
		r.Date = l.now().UTC().Format(time.DateOnly)
	}

	var existing []LocalRecord
	raw, ok, err := l.cache.Get(ctx, RecordsKey)
	if err != nil {
		return LocalRecord{}, err
	}
	if ok {
		existing, err = ParseRecords(raw)
		if err != nil {
			return LocalRecord{}, err
		}
	}

	payload, err := MarshalRecords(append(existing, r))
	if err != nil {
		return LocalRecord{}, err
	}
	if err := l.cache.Set(ctx, RecordsKey, payload); err != nil {
		return LocalRecord{}, err
	}
	return r, nil
}
