package actions

import (
	"context"

	"github.com/carson-networks/budget-sync/internal/record"
	"github.com/carson-networks/budget-sync/internal/storage"
)

// UpsertBatchSize caps how many rows go into one upsert statement.
const UpsertBatchSize = 50

// UpsertRecords writes records keyed by id. All batches share the writer, so a failed
// batch rolls back the ones before it.
type UpsertRecords struct {
	Records []*record.Record

	// Written counts the rows inserted or replaced.
	Written int
}

func (a *UpsertRecords) Name() string {
	return "UpsertRecords"
}

func (a *UpsertRecords) Perform(ctx context.Context, writer *storage.Writer) error {
	a.Written = 0
	for start := 0; start < len(a.Records); start += UpsertBatchSize {
		end := min(start+UpsertBatchSize, len(a.Records))
		n, err := writer.Records.Upsert(ctx, a.Records[start:end])
		if err != nil {
			return err
		}
		a.Written += n
	}
	return nil
}
