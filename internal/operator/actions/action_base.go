package actions

import (
	"context"

	"github.com/carson-networks/budget-sync/internal/storage"
)

// IAction is a unit of remote work. Perform runs inside one writer; a returned error
// rolls the writer back. Name identifies the action in logs.
type IAction interface {
	Name() string
	Perform(ctx context.Context, writer *storage.Writer) error
}
