package storage

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/aarondl/opt/omit"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/carson-networks/budget-sync/internal/record"
	"github.com/carson-networks/budget-sync/internal/storage/changefeed"
	"github.com/carson-networks/budget-sync/internal/storage/memory"
	"github.com/carson-networks/budget-sync/internal/storage/migrations"
)

func startPostgres(t *testing.T) (*sql.DB, string) {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres container test skipped in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	ctr, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("budget"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("testpassword"),
		postgres.BasicWaitStrategies(),
	)
	t.Cleanup(func() {
		if ctr != nil {
			require.NoError(t, ctr.Terminate(context.Background()))
		}
	})
	require.NoError(t, err)

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	pre, post, err := migrations.Up(db)
	require.NoError(t, err)
	assert.Equal(t, uint(0), pre)
	assert.Equal(t, uint(3), post)
	return db, dsn
}

func expectEvent(t *testing.T, sub changefeed.Subscription) changefeed.Event {
	t.Helper()
	select {
	case ev, ok := <-sub.Events():
		require.True(t, ok, "subscription closed")
		return ev
	case <-time.After(10 * time.Second):
		t.Fatal("no notification received")
		return changefeed.Event{}
	}
}

func TestPostgresStorage(t *testing.T) {
	db, dsn := startPostgres(t)
	logger, _ := test.NewNullLogger()
	s := NewStorageFromDB(db, changefeed.NewPQFeed(dsn, logger))
	ctx := context.Background()

	sub, err := s.Feed.Subscribe(ctx, "u1")
	require.NoError(t, err)
	defer sub.Close()

	w, err := s.Write(ctx)
	require.NoError(t, err)
	created, err := w.Records.Insert(ctx, &record.Create{
		OwnerID:     "u1",
		Description: "Coffee",
		Amount:      decimal.RequireFromString("3.50"),
		Category:    record.Uncategorized,
		Kind:        record.KindExpense,
		Date:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NoError(t, w.Commit())
	assert.NotEmpty(t, created.ID)

	ev := expectEvent(t, sub)
	assert.Equal(t, changefeed.EventInsert, ev.Type)
	assert.Equal(t, created.ID, ev.RecordID())
	assert.True(t, ev.New.Amount.Equal(decimal.RequireFromString("3.5")))

	t.Run("rolled back writes are invisible", func(t *testing.T) {
		w, err := s.Write(ctx)
		require.NoError(t, err)
		_, err = w.Records.Insert(ctx, &record.Create{OwnerID: "u1", Amount: decimal.NewFromInt(1), Category: "x", Kind: record.KindIncome, Date: time.Now()})
		require.NoError(t, err)
		require.NoError(t, w.Rollback())

		rows, err := s.Records.List(ctx, "u1")
		require.NoError(t, err)
		assert.Len(t, rows, 1)
	})

	t.Run("update and delete are owner scoped", func(t *testing.T) {
		_, err := s.Records.Update(ctx, "u2", created.ID, &record.Patch{Description: omit.From("Tea")})
		assert.ErrorIs(t, err, record.ErrNotFound)
		assert.ErrorIs(t, s.Records.Delete(ctx, "u2", created.ID), record.ErrNotFound)

		updated, err := s.Records.Update(ctx, "u1", created.ID, &record.Patch{Description: omit.From("Tea")})
		require.NoError(t, err)
		assert.Equal(t, "Tea", updated.Description)

		ev := expectEvent(t, sub)
		assert.Equal(t, changefeed.EventUpdate, ev.Type)
		assert.Equal(t, "Tea", ev.New.Description)
	})

	t.Run("upsert never takes over another owner's row", func(t *testing.T) {
		n, err := s.Records.Upsert(ctx, []*record.Record{
			{ID: created.ID, OwnerID: "u2", Amount: decimal.NewFromInt(9), Category: "x", Kind: record.KindIncome, Date: time.Now()},
			{ID: "staged-1", OwnerID: "u1", Amount: decimal.NewFromInt(2), Category: "food", Kind: record.KindExpense, Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		n, err = s.Records.Upsert(ctx, []*record.Record{
			{ID: "staged-1", OwnerID: "u1", Amount: decimal.NewFromInt(2), Category: "food", Kind: record.KindExpense, Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		rows, err := s.Records.List(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "staged-1", rows[0].ID)
		assert.Equal(t, "Tea", rows[1].Description)
	})

	t.Run("delete notifies with the old row", func(t *testing.T) {
		// drain the upsert notifications
		expectEvent(t, sub)
		expectEvent(t, sub)

		require.NoError(t, s.Records.Delete(ctx, "u1", "staged-1"))
		ev := expectEvent(t, sub)
		assert.Equal(t, changefeed.EventDelete, ev.Type)
		assert.Equal(t, "staged-1", ev.RecordID())
	})

	t.Run("amounts keep their full precision", func(t *testing.T) {
		amounts := []string{"12345678901234.5678", "0.001"}
		for i, a := range amounts {
			_, err := s.Records.Insert(ctx, &record.Create{
				ID:       fmt.Sprintf("precise-%d", i),
				OwnerID:  "u3",
				Amount:   decimal.RequireFromString(a),
				Category: "x",
				Kind:     record.KindIncome,
				Date:     time.Date(2024, 3, i+1, 0, 0, 0, 0, time.UTC),
			})
			require.NoError(t, err)
		}

		rows, err := s.Records.List(ctx, "u3")
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.True(t, rows[0].Amount.Equal(decimal.RequireFromString("0.001")), rows[0].Amount.String())
		assert.True(t, rows[1].Amount.Equal(decimal.RequireFromString("12345678901234.5678")), rows[1].Amount.String())
	})
}

func TestMemoryStorage_WriterHasNoTransaction(t *testing.T) {
	store := memory.NewStore()
	s := NewMemoryStorage(store)
	ctx := context.Background()

	w, err := s.Write(ctx)
	require.NoError(t, err)
	_, err = w.Records.Insert(ctx, &record.Create{ID: "a", OwnerID: "u1", Kind: record.KindIncome})
	require.NoError(t, err)
	assert.NoError(t, w.Rollback())

	_, ok := store.Row("a")
	assert.True(t, ok)
	assert.NoError(t, s.Close())
}
