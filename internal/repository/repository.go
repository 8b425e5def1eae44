package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/budget-sync/internal/operator"
	"github.com/carson-networks/budget-sync/internal/operator/actions"
	"github.com/carson-networks/budget-sync/internal/record"
	"github.com/carson-networks/budget-sync/internal/storage/changefeed"
	"github.com/carson-networks/budget-sync/internal/storage/sqlconfig"
)

type State string

const (
	StateUninitialized State = "uninitialized"
	StateLoading       State = "loading"
	StateReady         State = "ready"
	StateError         State = "error"
)

// ErrSubscriptionClosed is recorded when the change feed ends while the view is live.
var ErrSubscriptionClosed = errors.New("change subscription closed")

// Status describes the repository at one moment.
type Status struct {
	State   State
	OwnerID string
	Err     error
	Size    int
}

// Repository keeps an ordered, live view of one owner's records. Reads come from a
// bulk fetch plus the change feed; writes go to the remote store first and reach the
// view only once they succeed.
//
// A full refetch orders the view by date, newest first. Records added afterwards,
// locally or through the feed, go to the front whatever their date.
type Repository struct {
	records sqlconfig.IRecordTable
	feed    changefeed.IFeed
	ops     operator.IProcessor
	logger  *logrus.Logger
	now     func() time.Time

	mu      sync.Mutex
	owner   string
	state   State
	lastErr error
	view    []record.Record
	// pending holds events that arrive while a fetch is in flight.
	pending    []changefeed.Event
	sub        changefeed.Subscription
	generation uint64
	consumers  sync.WaitGroup
}

func New(records sqlconfig.IRecordTable, feed changefeed.IFeed, ops operator.IProcessor, logger *logrus.Logger) *Repository {
	return &Repository{
		records: records,
		feed:    feed,
		ops:     ops,
		logger:  logger,
		now:     time.Now,
		state:   StateUninitialized,
	}
}

// Open binds the repository to ownerID and loads its records. Switching owners tears
// down the previous owner's subscription first.
func (r *Repository) Open(ctx context.Context, ownerID string) error {
	if ownerID == "" {
		return record.ErrNotAuthenticated
	}

	r.mu.Lock()
	var stale changefeed.Subscription
	if r.owner != ownerID {
		stale = r.resetLocked()
		r.owner = ownerID
	}
	r.mu.Unlock()

	if stale != nil {
		_ = stale.Close()
	}
	return r.Refetch(ctx)
}

// Refetch discards the view and reloads it. It is safe to call at any time; an open
// subscription is kept rather than duplicated.
func (r *Repository) Refetch(ctx context.Context) error {
	r.mu.Lock()
	if r.owner == "" {
		r.mu.Unlock()
		return record.ErrNotAuthenticated
	}
	r.generation++
	gen := r.generation
	owner := r.owner
	r.state = StateLoading
	r.view = nil
	r.pending = nil
	needSubscription := r.sub == nil
	r.mu.Unlock()

	logger := r.logger.WithField("ownerID", owner)

	// Subscribe before fetching so nothing committed in between is missed.
	if needSubscription {
		sub, err := r.feed.Subscribe(ctx, owner)
		if err != nil {
			logger.WithError(err).Error("repository.Refetch: subscribe failed")
			return r.fail(gen, &record.RemoteReadError{Op: "subscribe", Err: err})
		}
		if !r.attach(gen, sub) {
			_ = sub.Close()
			return nil
		}
	}

	start := time.Now()
	rows, err := r.records.List(ctx, owner)
	if err != nil {
		logger.WithError(err).Error("repository.Refetch: list failed")
		return r.fail(gen, &record.RemoteReadError{Op: "list", Err: err})
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.generation {
		return nil
	}
	view := make([]record.Record, 0, len(rows))
	for _, row := range rows {
		view = append(view, *row)
	}
	for _, ev := range r.pending {
		view = ApplyEvent(view, ev)
	}
	r.view = view
	r.pending = nil
	r.state = StateReady
	r.lastErr = nil

	logger.WithFields(logrus.Fields{
		"records":  len(view),
		"duration": time.Since(start).String(),
	}).Info("repository.Refetch: ready")
	return nil
}

func (r *Repository) fail(gen uint64, err error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if gen == r.generation {
		r.state = StateError
		r.lastErr = err
		r.pending = nil
	}
	return err
}

// attach installs sub as the live subscription unless the fetch that opened it has
// been superseded.
func (r *Repository) attach(gen uint64, sub changefeed.Subscription) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.generation || r.sub != nil {
		return false
	}
	r.sub = sub
	r.consumers.Add(1)
	go r.consume(sub)
	return true
}

func (r *Repository) consume(sub changefeed.Subscription) {
	defer r.consumers.Done()

	for ev := range sub.Events() {
		r.mu.Lock()
		if r.sub != sub {
			r.mu.Unlock()
			continue
		}
		state := r.state
		switch {
		case ev.Type == changefeed.EventResync:
		case state == StateReady:
			r.view = ApplyEvent(r.view, ev)
		case state == StateLoading:
			r.pending = append(r.pending, ev)
		}
		r.mu.Unlock()

		if ev.Type == changefeed.EventResync && (state == StateReady || state == StateLoading) {
			r.logger.Info("repository: change feed resynced, refetching")
			if err := r.Refetch(context.Background()); err != nil {
				r.logger.WithError(err).Error("repository: refetch after reconnect failed")
			}
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sub != sub {
		return
	}
	r.sub = nil
	if r.state == StateReady || r.state == StateLoading {
		r.generation++
		r.state = StateError
		r.lastErr = &record.RemoteReadError{Op: "subscribe", Err: ErrSubscriptionClosed}
		r.logger.WithField("ownerID", r.owner).Warn("repository: change subscription ended")
	}
}

// Add inserts a record for the current owner. The view gains the stored row, not the
// input, and only once the insert succeeded.
func (r *Repository) Add(ctx context.Context, create record.Create) (record.Record, error) {
	owner, err := r.requireReady()
	if err != nil {
		return record.Record{}, err
	}

	create.OwnerID = owner
	if err := create.Normalize(r.now()); err != nil {
		return record.Record{}, err
	}

	action := &actions.InsertRecord{Create: create}
	if err := r.ops.Process(ctx, action); err != nil {
		return record.Record{}, &record.RemoteWriteError{Op: "insert", Err: err}
	}

	stored := *action.Result
	r.mutate(owner, func(view []record.Record) []record.Record {
		return Prepend(view, stored)
	})
	return stored, nil
}

// Update patches a record of the current owner and replaces it in place in the view.
func (r *Repository) Update(ctx context.Context, id string, patch record.Patch) (record.Record, error) {
	owner, err := r.requireReady()
	if err != nil {
		return record.Record{}, err
	}
	if err := patch.Validate(); err != nil {
		return record.Record{}, err
	}

	action := &actions.UpdateRecord{OwnerID: owner, ID: id, Patch: patch}
	if err := r.ops.Process(ctx, action); err != nil {
		return record.Record{}, &record.RemoteWriteError{Op: "update", Err: err}
	}

	updated := *action.Result
	r.mutate(owner, func(view []record.Record) []record.Record {
		return Replace(view, updated)
	})
	return updated, nil
}

// Remove deletes a record of the current owner and drops it from the view.
func (r *Repository) Remove(ctx context.Context, id string) error {
	owner, err := r.requireReady()
	if err != nil {
		return err
	}

	if err := r.ops.Process(ctx, &actions.DeleteRecord{OwnerID: owner, ID: id}); err != nil {
		return &record.RemoteWriteError{Op: "delete", Err: err}
	}

	r.mutate(owner, func(view []record.Record) []record.Record {
		return Without(view, id)
	})
	return nil
}

func (r *Repository) requireReady() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.owner == "" {
		return "", record.ErrNotAuthenticated
	}
	if r.state != StateReady {
		return "", record.ErrNotReady
	}
	return r.owner, nil
}

// mutate applies fn to the view if it still belongs to owner and is live. A fetch in
// flight will pick the change up from the store or the feed.
func (r *Repository) mutate(owner string, fn func([]record.Record) []record.Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.owner != owner || r.state != StateReady {
		return
	}
	r.view = fn(r.view)
}

// Close tears down the subscription and clears the view.
func (r *Repository) Close() {
	r.mu.Lock()
	sub := r.resetLocked()
	r.mu.Unlock()

	if sub != nil {
		_ = sub.Close()
	}
	r.consumers.Wait()
}

func (r *Repository) resetLocked() changefeed.Subscription {
	sub := r.sub
	r.generation++
	r.sub = nil
	r.owner = ""
	r.state = StateUninitialized
	r.lastErr = nil
	r.view = nil
	r.pending = nil
	return sub
}

// Snapshot returns a copy of the current view.
func (r *Repository) Snapshot() []record.Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]record.Record, len(r.view))
	copy(out, r.view)
	return out
}

func (r *Repository) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Status{
		State:   r.state,
		OwnerID: r.owner,
		Err:     r.lastErr,
		Size:    len(r.view),
	}
}
