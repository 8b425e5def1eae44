package sqlconfig

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/budget-sync/internal/record"
)

const tableName = "transactions"

var recordColumns = []string{"id", "owner_id", "description", "amount", "category", "kind", "date"}

// recordRow is the scanned shape of a transactions row.
type recordRow struct {
	ID          string          `db:"id"`
	OwnerID     string          `db:"owner_id"`
	Description string          `db:"description"`
	Amount      decimal.Decimal `db:"amount"`
	Category    string          `db:"category"`
	Kind        string          `db:"kind"`
	Date        time.Time       `db:"date"`
}

// IRecordTable defines the interface for financial record storage operations.
// Every read and write is scoped to an owner; Upsert takes the owner from each record.
//
//go:generate mockery --name IRecordTable --output mock_IRecordTable.go
type IRecordTable interface {
	List(ctx context.Context, ownerID string) ([]*record.Record, error)
	Insert(ctx context.Context, create *record.Create) (*record.Record, error)
	Upsert(ctx context.Context, records []*record.Record) (int, error)
	Update(ctx context.Context, ownerID, id string, patch *record.Patch) (*record.Record, error)
	Delete(ctx context.Context, ownerID, id string) error
}

func rowToRecord(row recordRow) *record.Record {
	category := row.Category
	if category == "" {
		category = record.Uncategorized
	}
	return &record.Record{
		ID:          row.ID,
		OwnerID:     row.OwnerID,
		Description: row.Description,
		Amount:      row.Amount,
		Category:    category,
		Kind:        record.Kind(row.Kind),
		Date:        record.TruncateDate(row.Date),
	}
}
