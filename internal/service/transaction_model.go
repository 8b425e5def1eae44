package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/budget-sync/internal/record"
	"github.com/carson-networks/budget-sync/internal/repository"
)

// Transaction represents a transaction in the service layer.
type Transaction struct {
	ID          string
	Description string
	Amount      decimal.Decimal
	Category    string
	Kind        record.Kind
	Date        time.Time
}

// TransactionCursor identifies a position in the current view.
type TransactionCursor struct {
	Position int
	Limit    int
}

// SyncStatus reports the state of the live view.
type SyncStatus struct {
	State   repository.State
	OwnerID string
	Error   string
	Size    int
}

func transactionFromRecord(r record.Record) Transaction {
	return Transaction{
		ID:          r.ID,
		Description: r.Description,
		Amount:      r.Amount,
		Category:    r.Category,
		Kind:        r.Kind,
		Date:        r.Date,
	}
}
