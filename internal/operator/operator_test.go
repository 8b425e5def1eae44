package operator

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/budget-sync/internal/operator/actions"
	"github.com/carson-networks/budget-sync/internal/record"
	"github.com/carson-networks/budget-sync/internal/storage"
	"github.com/carson-networks/budget-sync/internal/storage/memory"
)

type panicAction struct{}

func (panicAction) Name() string { return "Panic" }

func (panicAction) Perform(context.Context, *storage.Writer) error {
	panic("boom")
}

func newDelegator(t *testing.T, workers int) (*OperatorDelegator, *memory.Store) {
	t.Helper()
	logger, _ := test.NewNullLogger()
	store := memory.NewStore()
	d := NewOperatorDelegator(storage.NewMemoryStorage(store), workers, logger)
	d.Start()
	t.Cleanup(d.Stop)
	return d, store
}

func TestProcess_InsertUpdateDelete(t *testing.T) {
	d, store := newDelegator(t, 2)
	ctx := context.Background()

	insert := &actions.InsertRecord{Create: record.Create{
		OwnerID: "u1", Amount: decimal.NewFromInt(4), Category: record.Uncategorized, Kind: record.KindExpense,
	}}
	require.NoError(t, d.Process(ctx, insert))
	require.NotNil(t, insert.Result)
	assert.Equal(t, 1, store.Count("u1"))

	update := &actions.UpdateRecord{OwnerID: "u1", ID: insert.Result.ID}
	update.Patch.Description.Set("Tea")
	require.NoError(t, d.Process(ctx, update))
	assert.Equal(t, "Tea", update.Result.Description)

	err := d.Process(ctx, &actions.DeleteRecord{OwnerID: "u2", ID: insert.Result.ID})
	assert.ErrorIs(t, err, record.ErrNotFound)
	require.NoError(t, d.Process(ctx, &actions.DeleteRecord{OwnerID: "u1", ID: insert.Result.ID}))
	assert.Equal(t, 0, store.Count("u1"))
}

func TestProcess_UpsertBatches(t *testing.T) {
	d, store := newDelegator(t, 1)

	records := make([]*record.Record, actions.UpsertBatchSize*2+3)
	for i := range records {
		records[i] = &record.Record{ID: fmt.Sprintf("staged-%d", i), OwnerID: "u1", Kind: record.KindIncome}
	}
	upsert := &actions.UpsertRecords{Records: records}
	require.NoError(t, d.Process(context.Background(), upsert))
	assert.Equal(t, len(records), upsert.Written)
	assert.Equal(t, len(records), store.Count("u1"))
}

func TestProcess_StoreFailure(t *testing.T) {
	d, store := newDelegator(t, 1)
	boom := errors.New("connection refused")
	store.FailWrites(boom)

	err := d.Process(context.Background(), &actions.InsertRecord{Create: record.Create{OwnerID: "u1", Kind: record.KindIncome}})
	assert.ErrorIs(t, err, boom)
}

func TestProcess_PanicIsReported(t *testing.T) {
	d, _ := newDelegator(t, 1)

	err := d.Process(context.Background(), panicAction{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Panic panicked")

	// the worker survives
	assert.NoError(t, d.Process(context.Background(), &actions.InsertRecord{Create: record.Create{OwnerID: "u1", Kind: record.KindIncome}}))
}

func TestProcess_CanceledContext(t *testing.T) {
	d, store := newDelegator(t, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := d.Process(ctx, &actions.InsertRecord{Create: record.Create{OwnerID: "u1", Kind: record.KindIncome}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, store.Count("u1"))
}
