package actions

import (
	"context"

	"github.com/carson-networks/budget-sync/internal/storage"
)

type DeleteRecord struct {
	OwnerID string
	ID      string
}

func (a *DeleteRecord) Name() string {
	return "DeleteRecord"
}

func (a *DeleteRecord) Perform(ctx context.Context, writer *storage.Writer) error {
	return writer.Records.Delete(ctx, a.OwnerID, a.ID)
}
