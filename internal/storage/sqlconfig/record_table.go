package sqlconfig

import (
	"context"
	"database/sql"
	"errors"

	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/dm"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/budget-sync/internal/record"
)

var _ IRecordTable = (*RecordsTable)(nil)

// RecordsTable provides access to the transactions table.
type RecordsTable struct {
	exec bob.Executor
}

// NewRecordsTable creates a RecordsTable over any bob executor (a DB or a transaction).
func NewRecordsTable(exec bob.Executor) *RecordsTable {
	return &RecordsTable{exec: exec}
}

// List returns every record of the owner, most recent date first.
func (t *RecordsTable) List(ctx context.Context, ownerID string) ([]*record.Record, error) {
	q := psql.Select(
		sm.Columns(quotedColumns()...),
		sm.From(tableName),
		sm.Where(psql.Quote("owner_id").EQ(psql.Arg(ownerID))),
		sm.OrderBy(psql.Quote("date")).Desc(),
		sm.OrderBy(psql.Quote("id")).Desc(),
	)
	rows, err := bob.All(ctx, t.exec, q, scan.StructMapper[recordRow]())
	if err != nil {
		return nil, err
	}
	result := make([]*record.Record, len(rows))
	for i, row := range rows {
		result[i] = rowToRecord(row)
	}
	return result, nil
}

// Insert creates a record and returns the stored row. The id is generated by the
// database unless the input carries one.
func (t *RecordsTable) Insert(ctx context.Context, create *record.Create) (*record.Record, error) {
	columns := []string{"owner_id", "description", "amount", "category", "kind", "date"}
	values := []any{create.OwnerID, create.Description, create.Amount, create.Category, string(create.Kind), create.Date}
	if create.ID != "" {
		columns = append([]string{"id"}, columns...)
		values = append([]any{create.ID}, values...)
	}

	q := psql.Insert(
		im.Into(tableName, columns...),
		im.Values(psql.Arg(values...)),
		im.Returning(quotedColumns()...),
	)
	row, err := bob.One(ctx, t.exec, q, scan.StructMapper[recordRow]())
	if err != nil {
		return nil, err
	}
	return rowToRecord(row), nil
}

// Upsert inserts the records or replaces existing rows with the same id. A row that
// already belongs to a different owner is left untouched and is not counted.
func (t *RecordsTable) Upsert(ctx context.Context, records []*record.Record) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	queryMods := []bob.Mod[*dialect.InsertQuery]{
		im.Into(tableName, recordColumns...),
	}
	for _, r := range records {
		queryMods = append(queryMods, im.Values(psql.Arg(
			r.ID, r.OwnerID, r.Description, r.Amount, r.Category, string(r.Kind), r.Date,
		)))
	}
	queryMods = append(queryMods,
		im.OnConflict("id").DoUpdate(
			im.SetExcluded("description", "amount", "category", "kind", "date"),
			im.Where(psql.Quote(tableName, "owner_id").EQ(psql.Quote("excluded", "owner_id"))),
		),
	)

	res, err := bob.Exec(ctx, t.exec, psql.Insert(queryMods...))
	if err != nil {
		return 0, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}

// Update writes the set fields of the patch to the record matching both id and owner.
func (t *RecordsTable) Update(ctx context.Context, ownerID, id string, patch *record.Patch) (*record.Record, error) {
	queryMods := []bob.Mod[*dialect.UpdateQuery]{
		um.Table(tableName),
	}
	if v, ok := patch.Description.Get(); ok {
		queryMods = append(queryMods, um.SetCol("description").ToArg(v))
	}
	if v, ok := patch.Amount.Get(); ok {
		queryMods = append(queryMods, um.SetCol("amount").ToArg(v))
	}
	if v, ok := patch.Category.Get(); ok {
		queryMods = append(queryMods, um.SetCol("category").ToArg(v))
	}
	if v, ok := patch.Kind.Get(); ok {
		queryMods = append(queryMods, um.SetCol("kind").ToArg(string(v)))
	}
	if v, ok := patch.Date.Get(); ok {
		queryMods = append(queryMods, um.SetCol("date").ToArg(v))
	}
	queryMods = append(queryMods,
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
		um.Where(psql.Quote("owner_id").EQ(psql.Arg(ownerID))),
		um.Returning(quotedColumns()...),
	)

	row, err := bob.One(ctx, t.exec, psql.Update(queryMods...), scan.StructMapper[recordRow]())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, record.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rowToRecord(row), nil
}

// Delete removes the record matching both id and owner.
func (t *RecordsTable) Delete(ctx context.Context, ownerID, id string) error {
	q := psql.Delete(
		dm.From(tableName),
		dm.Where(psql.Quote("id").EQ(psql.Arg(id))),
		dm.Where(psql.Quote("owner_id").EQ(psql.Arg(ownerID))),
	)
	res, err := bob.Exec(ctx, t.exec, q)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return record.ErrNotFound
	}
	return nil
}

func quotedColumns() []any {
	cols := make([]any, len(recordColumns))
	for i, c := range recordColumns {
		cols[i] = psql.Quote(c)
	}
	return cols
}
