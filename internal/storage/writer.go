package storage

import (
	"context"

	"github.com/carson-networks/budget-sync/internal/storage/sqlconfig"
)

// Writer scopes record writes to one transaction. Memory writers have no transaction.
type Writer struct {
	Records sqlconfig.IRecordTable

	commit   func(context.Context) error
	rollback func(context.Context) error
}

func (w *Writer) Commit() error {
	if w.commit == nil {
		return nil
	}
	return w.commit(context.Background())
}

func (w *Writer) Rollback() error {
	if w.rollback == nil {
		return nil
	}
	return w.rollback(context.Background())
}
