package repository

import (
	"github.com/carson-networks/budget-sync/internal/record"
	"github.com/carson-networks/budget-sync/internal/storage/changefeed"
)

// The merge functions never modify their input slice.

// Prepend puts r at the front of the view. If a record with the same id is already
// present it is replaced where it stands instead.
func Prepend(view []record.Record, r record.Record) []record.Record {
	if i := indexOf(view, r.ID); i >= 0 {
		return Replace(view, r)
	}
	out := make([]record.Record, 0, len(view)+1)
	out = append(out, r)
	return append(out, view...)
}

// Replace swaps the record with r's id for r, keeping its position. A view without
// that id is returned unchanged.
func Replace(view []record.Record, r record.Record) []record.Record {
	i := indexOf(view, r.ID)
	if i < 0 {
		return view
	}
	out := make([]record.Record, len(view))
	copy(out, view)
	out[i] = r
	return out
}

// Without drops the record with the given id.
func Without(view []record.Record, id string) []record.Record {
	i := indexOf(view, id)
	if i < 0 {
		return view
	}
	out := make([]record.Record, 0, len(view)-1)
	out = append(out, view[:i]...)
	return append(out, view[i+1:]...)
}

// ApplyEvent merges one change event into the view.
func ApplyEvent(view []record.Record, ev changefeed.Event) []record.Record {
	switch ev.Type {
	case changefeed.EventInsert:
		if ev.New != nil {
			return Prepend(view, *ev.New)
		}
	case changefeed.EventUpdate:
		if ev.New != nil {
			return Replace(view, *ev.New)
		}
	case changefeed.EventDelete:
		if id := ev.RecordID(); id != "" {
			return Without(view, id)
		}
	}
	return view
}

func indexOf(view []record.Record, id string) int {
	for i := range view {
		if view[i].ID == id {
			return i
		}
	}
	return -1
}
