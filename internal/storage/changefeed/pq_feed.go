package changefeed

import (
	"context"
	"sync"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

const (
	minReconnectInterval = 2 * time.Second
	maxReconnectInterval = time.Minute
	pingInterval         = 90 * time.Second
	eventBuffer          = 64
)

// PQFeed delivers row changes published by the transactions trigger through
// PostgreSQL LISTEN/NOTIFY. Each subscription holds its own listener connection.
type PQFeed struct {
	dsn    string
	logger *logrus.Logger
}

var _ IFeed = (*PQFeed)(nil)

func NewPQFeed(dsn string, logger *logrus.Logger) *PQFeed {
	return &PQFeed{dsn: dsn, logger: logger}
}

func (f *PQFeed) Subscribe(ctx context.Context, ownerID string) (Subscription, error) {
	log := f.logger.WithField("ownerID", ownerID)
	listener := pq.NewListener(f.dsn, minReconnectInterval, maxReconnectInterval,
		func(ev pq.ListenerEventType, err error) {
			if err != nil {
				log.WithError(err).WithField("listenerEvent", ev).Warn("ChangeFeed.Listener.Event")
			}
		})

	if err := listener.Listen(Channel); err != nil {
		_ = listener.Close()
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		_ = listener.Close()
		return nil, err
	}

	sub := &pqSubscription{
		listener: listener,
		ownerID:  ownerID,
		log:      log,
		events:   make(chan Event, eventBuffer),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	go sub.run()

	log.Info("ChangeFeed.Subscribe.Listening")
	return sub, nil
}

type pqSubscription struct {
	listener *pq.Listener
	ownerID  string
	log      *logrus.Entry
	events   chan Event
	done     chan struct{}
	stopped  chan struct{}
	once     sync.Once
}

func (s *pqSubscription) Events() <-chan Event {
	return s.events
}

func (s *pqSubscription) Close() error {
	var err error
	s.once.Do(func() {
		close(s.done)
		err = s.listener.Close()
		<-s.stopped
	})
	return err
}

func (s *pqSubscription) run() {
	defer close(s.stopped)
	defer close(s.events)

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			go func() {
				if err := s.listener.Ping(); err != nil {
					s.log.WithError(err).Warn("ChangeFeed.Ping.Error")
				}
			}()
		case n, ok := <-s.listener.Notify:
			if !ok {
				return
			}
			if n == nil {
				// the listener reconnected and notifications sent meanwhile are lost
				s.log.Info("ChangeFeed.Reconnected")
				if !s.deliver(Event{Type: EventResync}) {
					return
				}
				continue
			}
			ev, owner, err := DecodeNotification(n.Extra)
			if err != nil {
				s.log.WithError(err).Warn("ChangeFeed.Decode.Error")
				continue
			}
			if owner != s.ownerID {
				continue
			}
			if !s.deliver(ev) {
				return
			}
		}
	}
}

func (s *pqSubscription) deliver(ev Event) bool {
	select {
	case s.events <- ev:
		return true
	case <-s.done:
		return false
	}
}
