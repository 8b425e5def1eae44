package transaction

import (
	"fmt"
	"time"

	"github.com/carson-networks/budget-sync/internal/record"
	"github.com/carson-networks/budget-sync/internal/service"
)

// Transaction is the API response model for a transaction.
// It is used only for responses, not for request bodies.
type Transaction struct {
	ID          string `json:"id" doc:"Transaction id"`
	Description string `json:"description" doc:"Free text description"`
	Amount      string `json:"amount" doc:"Non-negative decimal amount"`
	Category    string `json:"category" doc:"Category label"`
	Type        string `json:"type" enum:"income,expense" doc:"Income or expense"`
	Date        string `json:"date" doc:"Calendar date, YYYY-MM-DD"`
}

func fromService(tx service.Transaction) Transaction {
	return Transaction{
		ID:          tx.ID,
		Description: tx.Description,
		Amount:      tx.Amount.String(),
		Category:    tx.Category,
		Type:        string(tx.Kind),
		Date:        tx.Date.Format(time.DateOnly),
	}
}

// parseDate accepts a plain date or an RFC3339 timestamp.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q is neither YYYY-MM-DD nor RFC3339", value)
	}
	return record.TruncateDate(t), nil
}
