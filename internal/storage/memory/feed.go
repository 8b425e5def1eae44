package memory

import (
	"context"
	"sync"

	"github.com/carson-networks/budget-sync/internal/storage/changefeed"
)

const subscriberBuffer = 256

type subscription struct {
	store   *Store
	ownerID string
	events  chan changefeed.Event
	once    sync.Once
}

// Subscribe opens a change subscription for ownerID. A subscriber that falls a full
// buffer behind loses its backlog and receives a single EventResync instead.
func (s *Store) Subscribe(ctx context.Context, ownerID string) (changefeed.Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sub := &subscription{
		store:   s,
		ownerID: ownerID,
		events:  make(chan changefeed.Event, subscriberBuffer),
	}

	s.mu.Lock()
	s.subs[sub] = struct{}{}
	s.mu.Unlock()
	return sub, nil
}

// Subscribers returns the number of open subscriptions.
func (s *Store) Subscribers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}

// publishLocked must be called with s.mu held.
func (s *Store) publishLocked(ownerID string, ev changefeed.Event) {
	for sub := range s.subs {
		if sub.ownerID != ownerID {
			continue
		}
		select {
		case sub.events <- ev:
		default:
			sub.overflow()
		}
	}
}

// overflow replaces the backlog with one resync event. Callers hold s.mu, so no
// other publisher can refill the buffer in between.
func (sub *subscription) overflow() {
drain:
	for {
		select {
		case <-sub.events:
		default:
			break drain
		}
	}
	sub.events <- changefeed.Event{Type: changefeed.EventResync}
}

func (sub *subscription) Events() <-chan changefeed.Event {
	return sub.events
}

func (sub *subscription) Close() error {
	sub.once.Do(func() {
		sub.store.mu.Lock()
		delete(sub.store.subs, sub)
		close(sub.events)
		sub.store.mu.Unlock()
	})
	return nil
}
