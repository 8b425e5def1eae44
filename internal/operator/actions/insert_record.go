package actions

import (
	"context"

	"github.com/carson-networks/budget-sync/internal/record"
	"github.com/carson-networks/budget-sync/internal/storage"
)

type InsertRecord struct {
	Create record.Create

	// Result is the row as stored, set once Perform succeeds.
	Result *record.Record
}

func (a *InsertRecord) Name() string {
	return "InsertRecord"
}

func (a *InsertRecord) Perform(ctx context.Context, writer *storage.Writer) error {
	inserted, err := writer.Records.Insert(ctx, &a.Create)
	if err != nil {
		return err
	}

	a.Result = inserted
	return nil
}
