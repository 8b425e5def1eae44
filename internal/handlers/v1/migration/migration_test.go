package migration

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/budget-sync/internal/local"
	mig "github.com/carson-networks/budget-sync/internal/migration"
	"github.com/carson-networks/budget-sync/internal/record"
	"github.com/carson-networks/budget-sync/internal/service"
)

type mockMigrationService struct {
	mock.Mock
}

func (m *mockMigrationService) Status(ctx context.Context) (service.MigrationStatus, error) {
	args := m.Called(ctx)
	status, _ := args.Get(0).(service.MigrationStatus)
	return status, args.Error(1)
}

func (m *mockMigrationService) Migrate(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockMigrationService) Skip(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockMigrationService) Reset(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockMigrationService) Backups(ctx context.Context) ([]mig.Backup, error) {
	args := m.Called(ctx)
	backups, _ := args.Get(0).([]mig.Backup)
	return backups, args.Error(1)
}

func (m *mockMigrationService) RestoreLatestBackup(ctx context.Context) (mig.Backup, error) {
	args := m.Called(ctx)
	backup, _ := args.Get(0).(mig.Backup)
	return backup, args.Error(1)
}

func (m *mockMigrationService) LocalTransactions(ctx context.Context) ([]local.LocalRecord, error) {
	args := m.Called(ctx)
	records, _ := args.Get(0).([]local.LocalRecord)
	return records, args.Error(1)
}

func (m *mockMigrationService) StageTransaction(ctx context.Context, r local.LocalRecord) (local.LocalRecord, error) {
	args := m.Called(ctx, r)
	staged, _ := args.Get(0).(local.LocalRecord)
	return staged, args.Error(1)
}

func (m *mockMigrationService) ClearLocalData(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func newTestAPI(t *testing.T, svc *mockMigrationService) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	NewHandler(svc).Register(api)
	NewLocalHandler(svc).Register(api)
	return api
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(data, &v))
	return v
}

// -- migration tests --

func TestGetMigration(t *testing.T) {
	svc := new(mockMigrationService)
	svc.On("Status", mock.Anything).Return(service.MigrationStatus{State: mig.StateUnset, Pending: true, PendingCount: 3}, nil)

	resp := newTestAPI(t, svc).Get("/v1/migration")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, StatusBody{State: "unset", Pending: true, PendingCount: 3}, decode[StatusBody](t, resp.Body.Bytes()))
}

func TestMigrate_Success(t *testing.T) {
	svc := new(mockMigrationService)
	svc.On("Migrate", mock.Anything).Return(1, nil)

	resp := newTestAPI(t, svc).Post("/v1/migration")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, MigrateBody{MigratedCount: 1}, decode[MigrateBody](t, resp.Body.Bytes()))
}

func TestMigrate_RemoteFailureIsAResult(t *testing.T) {
	svc := new(mockMigrationService)
	svc.On("Migrate", mock.Anything).Return(0, &record.RemoteWriteError{Op: "upsert", Err: errors.New("permission denied")})

	resp := newTestAPI(t, svc).Post("/v1/migration")
	assert.Equal(t, http.StatusOK, resp.Code)

	body := decode[MigrateBody](t, resp.Body.Bytes())
	assert.Equal(t, 0, body.MigratedCount)
	assert.Contains(t, body.Error, "permission denied")
}

func TestMigrate_NotSignedIn(t *testing.T) {
	svc := new(mockMigrationService)
	svc.On("Migrate", mock.Anything).Return(0, record.ErrNotAuthenticated)

	resp := newTestAPI(t, svc).Post("/v1/migration")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestSkipAndReset(t *testing.T) {
	svc := new(mockMigrationService)
	svc.On("Skip", mock.Anything).Return(nil).Once()
	svc.On("Reset", mock.Anything).Return(nil).Once()
	svc.On("Status", mock.Anything).Return(service.MigrationStatus{State: mig.StateSkipped}, nil).Once()
	svc.On("Status", mock.Anything).Return(service.MigrationStatus{State: mig.StateUnset}, nil).Once()
	api := newTestAPI(t, svc)

	resp := api.Post("/v1/migration/skip")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "skipped", decode[StatusBody](t, resp.Body.Bytes()).State)

	resp = api.Post("/v1/migration/reset")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "unset", decode[StatusBody](t, resp.Body.Bytes()).State)
	svc.AssertExpectations(t)
}

func TestSkip_AfterCompleted(t *testing.T) {
	svc := new(mockMigrationService)
	svc.On("Skip", mock.Anything).Return(mig.ErrInvalidTransition)

	resp := newTestAPI(t, svc).Post("/v1/migration/skip")
	assert.Equal(t, http.StatusConflict, resp.Code)
}

func TestBackupsAndRestore(t *testing.T) {
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	backup := mig.Backup{
		Key:       "budget-calculator-backup-1709287200000",
		CreatedAt: created,
		Raw:       "[]",
		Records:   []local.LocalRecord{},
	}
	svc := new(mockMigrationService)
	svc.On("Backups", mock.Anything).Return([]mig.Backup{backup, {Key: "broken", Raw: "{"}}, nil)
	svc.On("RestoreLatestBackup", mock.Anything).Return(backup, nil)
	api := newTestAPI(t, svc)

	resp := api.Get("/v1/migration/backups")
	assert.Equal(t, http.StatusOK, resp.Code)
	body := decode[struct {
		Backups []BackupBody `json:"backups"`
	}](t, resp.Body.Bytes())
	require.Len(t, body.Backups, 2)
	assert.Equal(t, BackupBody{Key: backup.Key, CreatedAt: created, RecordCount: 0, Valid: true}, body.Backups[0])
	assert.False(t, body.Backups[1].Valid)

	resp = api.Post("/v1/migration/restore")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, backup.Key, decode[BackupBody](t, resp.Body.Bytes()).Key)
}

func TestRestore_NoBackup(t *testing.T) {
	svc := new(mockMigrationService)
	svc.On("RestoreLatestBackup", mock.Anything).Return(nil, mig.ErrNoBackup)

	resp := newTestAPI(t, svc).Post("/v1/migration/restore")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

// -- local transaction tests --

func TestListLocalTransactions(t *testing.T) {
	svc := new(mockMigrationService)
	svc.On("LocalTransactions", mock.Anything).Return([]local.LocalRecord{{
		ID: "a", Description: "Coffee", Amount: decimal.RequireFromString("3.50"), Type: record.KindExpense, Date: "2024-01-01",
	}}, nil)

	resp := newTestAPI(t, svc).Get("/v1/local/transactions")
	assert.Equal(t, http.StatusOK, resp.Code)
	body := decode[struct {
		Transactions []LocalTransaction `json:"transactions"`
	}](t, resp.Body.Bytes())
	assert.Equal(t, []LocalTransaction{{
		ID: "a", Description: "Coffee", Amount: "3.5", Type: "expense", Date: "2024-01-01",
	}}, body.Transactions)
}

func TestStageLocalTransaction(t *testing.T) {
	svc := new(mockMigrationService)
	svc.On("StageTransaction", mock.Anything, mock.MatchedBy(func(r local.LocalRecord) bool {
		return r.Description == "Lunch" && r.Amount.Equal(decimal.NewFromInt(12)) && r.Type == record.KindExpense
	})).Return(local.LocalRecord{ID: "new", Description: "Lunch", Amount: decimal.NewFromInt(12), Type: record.KindExpense, Date: "2024-03-10"}, nil)

	resp := newTestAPI(t, svc).Post("/v1/local/transactions", LocalTransaction{
		Description: "Lunch",
		Amount:      "12",
		Type:        "expense",
	})
	assert.Equal(t, http.StatusCreated, resp.Code)
	staged := decode[LocalTransaction](t, resp.Body.Bytes())
	assert.Equal(t, "new", staged.ID)
	assert.Equal(t, "2024-03-10", staged.Date)
}

func TestStageLocalTransaction_InvalidAmount(t *testing.T) {
	svc := new(mockMigrationService)

	resp := newTestAPI(t, svc).Post("/v1/local/transactions", LocalTransaction{
		Description: "Lunch",
		Amount:      "twelve",
		Type:        "expense",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestStageLocalTransaction_CorruptPayload(t *testing.T) {
	svc := new(mockMigrationService)
	svc.On("StageTransaction", mock.Anything, mock.Anything).Return(nil, local.ErrMalformed)

	resp := newTestAPI(t, svc).Post("/v1/local/transactions", LocalTransaction{
		Description: "Lunch",
		Amount:      "12",
		Type:        "expense",
	})
	assert.Equal(t, http.StatusConflict, resp.Code)
}

func TestClearLocalTransactions(t *testing.T) {
	svc := new(mockMigrationService)
	svc.On("ClearLocalData", mock.Anything).Return(nil)

	resp := newTestAPI(t, svc).Delete("/v1/local/transactions")
	assert.Equal(t, http.StatusNoContent, resp.Code)
	svc.AssertExpectations(t)
}
