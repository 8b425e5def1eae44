package local

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/budget-sync/internal/record"
)

// Cache keys shared by the staging ledger and the migration engine.
const (
	RecordsKey = "budget-calculator-transactions"
)

// ErrMalformed is returned when a stored payload is not a well-formed record list.
var ErrMalformed = errors.New("malformed local payload")

// LocalRecord is a record as it is staged on the device before it reaches the remote store.
type LocalRecord struct {
	ID          string          `json:"id,omitempty"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category,omitempty"`
	Type        record.Kind     `json:"type"`
	Date        string          `json:"date,omitempty"`
}

// ParseDate reads the date field. Both plain dates and RFC3339 timestamps are accepted;
// an empty date returns the zero time.
func (r LocalRecord) ParseDate() (time.Time, error) {
	if r.Date == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.DateOnly, r.Date); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, r.Date)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: %w", r.Date, err)
	}
	return record.TruncateDate(t), nil
}

// ParseRecords decodes a payload into local records. Anything other than a JSON array of
// well-formed records is reported as ErrMalformed.
func ParseRecords(raw string) ([]LocalRecord, error) {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "[") {
		return nil, ErrMalformed
	}

	var records []LocalRecord
	if err := json.Unmarshal([]byte(trimmed), &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	for i, r := range records {
		if !r.Type.Valid() {
			return nil, fmt.Errorf("%w: record %d has type %q", ErrMalformed, i, r.Type)
		}
		if r.Amount.IsNegative() {
			return nil, fmt.Errorf("%w: record %d has a negative amount", ErrMalformed, i)
		}
		if _, err := r.ParseDate(); err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrMalformed, i, err)
		}
	}
	return records, nil
}

// MarshalRecords encodes records in the payload format read by ParseRecords.
func MarshalRecords(records []LocalRecord) (string, error) {
	if records == nil {
		records = []LocalRecord{}
	}
	b, err := json.Marshal(records)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
