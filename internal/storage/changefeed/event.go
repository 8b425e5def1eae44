package changefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/budget-sync/internal/record"
)

// Channel is the notification channel the transactions trigger publishes on.
const Channel = "transaction_changes"

type EventType string

const (
	EventInsert EventType = "insert"
	EventUpdate EventType = "update"
	EventDelete EventType = "delete"
	// EventResync is emitted after the feed lost its connection; changes may have been missed.
	EventResync EventType = "resync"
)

// Event is one row change delivered to a subscriber. New is nil for deletes and Old is
// nil for inserts.
type Event struct {
	Type EventType
	New  *record.Record
	Old  *record.Record
}

// RecordID returns the id of the row the event refers to.
func (e Event) RecordID() string {
	if e.New != nil {
		return e.New.ID
	}
	if e.Old != nil {
		return e.Old.ID
	}
	return ""
}

// Subscription is a live, owner-filtered stream of change events. Events is closed
// once the subscription is closed.
type Subscription interface {
	Events() <-chan Event
	Close() error
}

// IFeed opens change subscriptions scoped to one owner.
type IFeed interface {
	Subscribe(ctx context.Context, ownerID string) (Subscription, error)
}

type notificationRow struct {
	ID          string          `json:"id"`
	OwnerID     string          `json:"owner_id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    *string         `json:"category"`
	Kind        string          `json:"kind"`
	Date        string          `json:"date"`
}

type notification struct {
	EventType string           `json:"eventType"`
	OwnerID   string           `json:"ownerId"`
	New       *notificationRow `json:"new"`
	Old       *notificationRow `json:"old"`
}

// DecodeNotification parses a trigger payload into an event and the owner it belongs to.
func DecodeNotification(payload string) (Event, string, error) {
	var n notification
	if err := json.Unmarshal([]byte(payload), &n); err != nil {
		return Event{}, "", fmt.Errorf("decode notification: %w", err)
	}

	var ev Event
	switch strings.ToUpper(n.EventType) {
	case "INSERT":
		ev.Type = EventInsert
	case "UPDATE":
		ev.Type = EventUpdate
	case "DELETE":
		ev.Type = EventDelete
	default:
		return Event{}, "", fmt.Errorf("decode notification: unknown event type %q", n.EventType)
	}

	var err error
	if ev.New, err = n.New.toRecord(); err != nil {
		return Event{}, "", err
	}
	if ev.Old, err = n.Old.toRecord(); err != nil {
		return Event{}, "", err
	}
	if ev.RecordID() == "" {
		return Event{}, "", fmt.Errorf("decode notification: %s event without a row", ev.Type)
	}
	return ev, n.OwnerID, nil
}

func (r *notificationRow) toRecord() (*record.Record, error) {
	if r == nil {
		return nil, nil
	}
	category := record.Uncategorized
	if r.Category != nil && *r.Category != "" {
		category = *r.Category
	}
	var date time.Time
	if r.Date != "" {
		d, err := time.Parse(time.DateOnly, r.Date[:min(len(r.Date), len(time.DateOnly))])
		if err != nil {
			return nil, fmt.Errorf("decode notification date %q: %w", r.Date, err)
		}
		date = d
	}
	return &record.Record{
		ID:          r.ID,
		OwnerID:     r.OwnerID,
		Description: r.Description,
		Amount:      r.Amount,
		Category:    category,
		Kind:        record.Kind(r.Kind),
		Date:        date,
	}, nil
}
