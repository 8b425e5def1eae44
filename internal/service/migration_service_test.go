package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/budget-sync/internal/local"
	"github.com/carson-networks/budget-sync/internal/migration"
	"github.com/carson-networks/budget-sync/internal/record"
)

func TestMigration_StageThenMigrate(t *testing.T) {
	env := newTestService(t, nil)
	ctx := context.Background()

	staged, err := env.svc.Migration.StageTransaction(ctx, local.LocalRecord{
		Description: "Coffee",
		Amount:      decimal.RequireFromString("3.50"),
		Type:        record.KindExpense,
		Date:        "2024-01-01",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, staged.ID)

	status, err := env.svc.Migration.Status(ctx)
	assert.NoError(t, err)
	assert.Equal(t, MigrationStatus{State: migration.StateUnset, Pending: true, PendingCount: 1}, status)

	pending, err := env.svc.Migration.CheckPending(ctx)
	assert.NoError(t, err)
	assert.True(t, pending)

	_, err = env.svc.Migration.Migrate(ctx)
	assert.ErrorIs(t, err, record.ErrNotAuthenticated)

	env.signIn(t, "u1")
	n, err := env.svc.Migration.Migrate(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 1, n)

	page, _, err := env.svc.Transaction.ListTransactions(ctx, nil)
	assert.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, staged.ID, page[0].ID)

	status, err = env.svc.Migration.Status(ctx)
	assert.NoError(t, err)
	assert.Equal(t, MigrationStatus{State: migration.StateCompleted}, status)

	pending, err = env.svc.Migration.CheckPending(ctx)
	assert.NoError(t, err)
	assert.False(t, pending)

	backups, err := env.svc.Migration.Backups(ctx)
	assert.NoError(t, err)
	assert.Len(t, backups, 1)

	localRecords, err := env.svc.Migration.LocalTransactions(ctx)
	assert.NoError(t, err)
	assert.Len(t, localRecords, 1)
}

func TestMigration_SkipResetRestoreClear(t *testing.T) {
	env := newTestService(t, nil)
	ctx := context.Background()
	_, err := env.svc.Migration.StageTransaction(ctx, local.LocalRecord{Amount: decimal.NewFromInt(1), Type: record.KindIncome})
	require.NoError(t, err)

	require.NoError(t, env.svc.Migration.Skip(ctx))
	status, _ := env.svc.Migration.Status(ctx)
	assert.Equal(t, migration.StateSkipped, status.State)
	assert.False(t, status.Pending)

	require.NoError(t, env.svc.Migration.Reset(ctx))
	status, _ = env.svc.Migration.Status(ctx)
	assert.True(t, status.Pending)

	_, err = env.svc.Migration.RestoreLatestBackup(ctx)
	assert.ErrorIs(t, err, migration.ErrNoBackup)

	env.signIn(t, "u1")
	_, err = env.svc.Migration.Migrate(ctx)
	require.NoError(t, err)

	require.NoError(t, env.svc.Migration.ClearLocalData(ctx))
	localRecords, err := env.svc.Migration.LocalTransactions(ctx)
	assert.NoError(t, err)
	assert.Empty(t, localRecords)

	backup, err := env.svc.Migration.RestoreLatestBackup(ctx)
	assert.NoError(t, err)
	assert.Len(t, backup.Records, 1)
	localRecords, _ = env.svc.Migration.LocalTransactions(ctx)
	assert.Len(t, localRecords, 1)
	assert.WithinDuration(t, time.Now(), backup.CreatedAt, time.Minute)
}
