package actions

import (
	"context"

	"github.com/carson-networks/budget-sync/internal/record"
	"github.com/carson-networks/budget-sync/internal/storage"
)

type UpdateRecord struct {
	OwnerID string
	ID      string
	Patch   record.Patch

	Result *record.Record
}

func (a *UpdateRecord) Name() string {
	return "UpdateRecord"
}

func (a *UpdateRecord) Perform(ctx context.Context, writer *storage.Writer) error {
	updated, err := writer.Records.Update(ctx, a.OwnerID, a.ID, &a.Patch)
	if err != nil {
		return err
	}

	a.Result = updated
	return nil
}
