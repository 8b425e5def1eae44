package record

import (
	"fmt"
	"time"

	"github.com/aarondl/opt/omit"
	"github.com/shopspring/decimal"
)

// Uncategorized is stored when a record has no category.
const Uncategorized = "uncategorized"

// Kind is the direction of a financial record.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

// Record is a single income or expense belonging to one owner.
type Record struct {
	ID          string
	OwnerID     string
	Description string
	Amount      decimal.Decimal
	Category    string
	Kind        Kind
	Date        time.Time
}

// Create is the input for inserting a record. ID, Category and Date are optional.
type Create struct {
	ID          string
	OwnerID     string
	Description string
	Amount      decimal.Decimal
	Category    string
	Kind        Kind
	Date        time.Time // defaults to today if zero
}

// Patch holds the fields to change on an existing record. Unset fields are left untouched.
type Patch struct {
	Description omit.Val[string]
	Amount      omit.Val[decimal.Decimal]
	Category    omit.Val[string]
	Kind        omit.Val[Kind]
	Date        omit.Val[time.Time]
}

// IsEmpty reports whether no field of the patch is set.
func (p *Patch) IsEmpty() bool {
	return p == nil || (!p.Description.IsSet() &&
		!p.Amount.IsSet() &&
		!p.Category.IsSet() &&
		!p.Kind.IsSet() &&
		!p.Date.IsSet())
}

// Validate checks the patch and normalizes the category and date fields in place.
func (p *Patch) Validate() error {
	if p.IsEmpty() {
		return fmt.Errorf("%w: empty patch", ErrInvalidRecord)
	}
	if amount, ok := p.Amount.Get(); ok && amount.IsNegative() {
		return fmt.Errorf("%w: amount must not be negative", ErrInvalidRecord)
	}
	if kind, ok := p.Kind.Get(); ok && !kind.Valid() {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidRecord, kind)
	}
	if category, ok := p.Category.Get(); ok && category == "" {
		p.Category = omit.From(Uncategorized)
	}
	if date, ok := p.Date.Get(); ok {
		p.Date = omit.From(TruncateDate(date))
	}
	return nil
}

// Apply returns a copy of r with the patch applied.
func (p *Patch) Apply(r Record) Record {
	if v, ok := p.Description.Get(); ok {
		r.Description = v
	}
	if v, ok := p.Amount.Get(); ok {
		r.Amount = v
	}
	if v, ok := p.Category.Get(); ok {
		r.Category = v
	}
	if v, ok := p.Kind.Get(); ok {
		r.Kind = v
	}
	if v, ok := p.Date.Get(); ok {
		r.Date = v
	}
	return r
}

// Normalize fills defaults on a create input and validates it. now supplies the default date.
func (c *Create) Normalize(now time.Time) error {
	if c.OwnerID == "" {
		return ErrNotAuthenticated
	}
	if c.Amount.IsNegative() {
		return fmt.Errorf("%w: amount must not be negative", ErrInvalidRecord)
	}
	if !c.Kind.Valid() {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidRecord, c.Kind)
	}
	if c.Category == "" {
		c.Category = Uncategorized
	}
	if c.Date.IsZero() {
		c.Date = now
	}
	c.Date = TruncateDate(c.Date)
	return nil
}

// TruncateDate drops the time of day, keeping the calendar date in UTC.
func TruncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
