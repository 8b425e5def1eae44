package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-sync/internal/record"
	"github.com/carson-networks/budget-sync/internal/storage/changefeed"
	"github.com/carson-networks/budget-sync/internal/storage/sqlconfig"
)

// Store is an in-process remote store: a records table plus a change feed that fans
// each committed write out to the owner's subscribers. Data is lost on restart.
type Store struct {
	mu      sync.RWMutex
	rows    map[string]record.Record
	subs    map[*subscription]struct{}
	failErr error
}

var (
	_ sqlconfig.IRecordTable = (*Store)(nil)
	_ changefeed.IFeed       = (*Store)(nil)
)

func NewStore() *Store {
	return &Store{
		rows: make(map[string]record.Record),
		subs: make(map[*subscription]struct{}),
	}
}

// FailWrites makes every following write return err until it is called with nil.
func (s *Store) FailWrites(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failErr = err
}

// Count returns the number of rows owned by ownerID.
func (s *Store) Count(ownerID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, r := range s.rows {
		if r.OwnerID == ownerID {
			n++
		}
	}
	return n
}

func (s *Store) List(_ context.Context, ownerID string) ([]*record.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*record.Record
	for _, r := range s.rows {
		if r.OwnerID != ownerID {
			continue
		}
		rc := r
		result = append(result, &rc)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.After(result[j].Date)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

func (s *Store) Insert(_ context.Context, create *record.Create) (*record.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return nil, s.failErr
	}

	id := create.ID
	if id == "" {
		id = uuid.Must(uuid.NewV4()).String()
	}
	if _, exists := s.rows[id]; exists {
		return nil, fmt.Errorf("duplicate key value violates unique constraint: id %q", id)
	}

	r := record.Record{
		ID:          id,
		OwnerID:     create.OwnerID,
		Description: create.Description,
		Amount:      create.Amount,
		Category:    create.Category,
		Kind:        create.Kind,
		Date:        record.TruncateDate(create.Date),
	}
	s.rows[id] = r
	s.publishLocked(r.OwnerID, changefeed.Event{Type: changefeed.EventInsert, New: copyOf(r)})
	return copyOf(r), nil
}

func (s *Store) Upsert(_ context.Context, records []*record.Record) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return 0, s.failErr
	}

	written := 0
	for _, in := range records {
		r := *in
		r.Date = record.TruncateDate(r.Date)
		old, exists := s.rows[r.ID]
		if exists && old.OwnerID != r.OwnerID {
			continue
		}
		s.rows[r.ID] = r
		written++
		if exists {
			s.publishLocked(r.OwnerID, changefeed.Event{Type: changefeed.EventUpdate, New: copyOf(r), Old: copyOf(old)})
		} else {
			s.publishLocked(r.OwnerID, changefeed.Event{Type: changefeed.EventInsert, New: copyOf(r)})
		}
	}
	return written, nil
}

func (s *Store) Update(_ context.Context, ownerID, id string, patch *record.Patch) (*record.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return nil, s.failErr
	}

	old, exists := s.rows[id]
	if !exists || old.OwnerID != ownerID {
		return nil, record.ErrNotFound
	}
	updated := patch.Apply(old)
	s.rows[id] = updated
	s.publishLocked(ownerID, changefeed.Event{Type: changefeed.EventUpdate, New: copyOf(updated), Old: copyOf(old)})
	return copyOf(updated), nil
}

func (s *Store) Delete(_ context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return s.failErr
	}

	old, exists := s.rows[id]
	if !exists || old.OwnerID != ownerID {
		return record.ErrNotFound
	}
	delete(s.rows, id)
	s.publishLocked(ownerID, changefeed.Event{Type: changefeed.EventDelete, Old: copyOf(old)})
	return nil
}

func copyOf(r record.Record) *record.Record {
	return &r
}

// Row returns the stored row with the given id regardless of owner.
func (s *Store) Row(id string) (record.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rows[id]
	return r, ok
}
