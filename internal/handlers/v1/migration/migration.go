package migration

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/budget-sync/internal/handlers/apierror"
	"github.com/carson-networks/budget-sync/internal/logging"
	mig "github.com/carson-networks/budget-sync/internal/migration"
	"github.com/carson-networks/budget-sync/internal/record"
	"github.com/carson-networks/budget-sync/internal/service"
)

type StatusBody struct {
	State        string `json:"state" enum:"unset,completed,skipped"`
	Pending      bool   `json:"pending" doc:"Staged records exist and no migration ran or was skipped"`
	PendingCount int    `json:"pendingCount"`
}

type StatusOutput struct {
	Body StatusBody
}

// MigrateBody is the migration result. A failed remote write is reported here with
// migratedCount 0 rather than as an HTTP error, so the client can offer a retry.
type MigrateBody struct {
	MigratedCount int    `json:"migratedCount"`
	Error         string `json:"error,omitempty"`
}

type MigrateOutput struct {
	Body MigrateBody
}

type BackupBody struct {
	Key         string    `json:"key"`
	CreatedAt   time.Time `json:"createdAt"`
	RecordCount int       `json:"recordCount"`
	Valid       bool      `json:"valid" doc:"Whether the snapshot parses as a record list"`
}

type BackupsOutput struct {
	Body struct {
		Backups []BackupBody `json:"backups"`
	}
}

type RestoreOutput struct {
	Body BackupBody
}

type migrationService interface {
	Status(ctx context.Context) (service.MigrationStatus, error)
	Migrate(ctx context.Context) (int, error)
	Skip(ctx context.Context) error
	Reset(ctx context.Context) error
	Backups(ctx context.Context) ([]mig.Backup, error)
	RestoreLatestBackup(ctx context.Context) (mig.Backup, error)
}

// Handler serves the /v1/migration endpoints.
type Handler struct {
	MigrationService migrationService
}

func NewHandler(svc migrationService) *Handler {
	return &Handler{MigrationService: svc}
}

func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-migration",
		Method:      http.MethodGet,
		Path:        "/v1/migration",
		Summary:     "Migration status",
		Tags:        []string{"Migration"},
	}, h.status)

	huma.Register(api, huma.Operation{
		OperationID: "migrate",
		Method:      http.MethodPost,
		Path:        "/v1/migration",
		Summary:     "Migrate local data",
		Description: "Upserts the staged local records for the signed-in user. Safe to repeat.",
		Tags:        []string{"Migration"},
	}, h.migrate)

	huma.Register(api, huma.Operation{
		OperationID: "skip-migration",
		Method:      http.MethodPost,
		Path:        "/v1/migration/skip",
		Summary:     "Skip migration",
		Tags:        []string{"Migration"},
	}, h.skip)

	huma.Register(api, huma.Operation{
		OperationID: "reset-migration",
		Method:      http.MethodPost,
		Path:        "/v1/migration/reset",
		Summary:     "Reset migration state",
		Description: "Support hook: forces the state back to unset.",
		Tags:        []string{"Migration"},
	}, h.reset)

	huma.Register(api, huma.Operation{
		OperationID: "list-migration-backups",
		Method:      http.MethodGet,
		Path:        "/v1/migration/backups",
		Summary:     "List backups",
		Tags:        []string{"Migration"},
	}, h.backups)

	huma.Register(api, huma.Operation{
		OperationID: "restore-migration-backup",
		Method:      http.MethodPost,
		Path:        "/v1/migration/restore",
		Summary:     "Restore latest backup",
		Description: "Copies the newest backup back into local storage and resets the state.",
		Tags:        []string{"Migration"},
	}, h.restore)
}

func toStatusBody(status service.MigrationStatus) StatusBody {
	return StatusBody{
		State:        string(status.State),
		Pending:      status.Pending,
		PendingCount: status.PendingCount,
	}
}

func toBackupBody(b mig.Backup) BackupBody {
	return BackupBody{
		Key:         b.Key,
		CreatedAt:   b.CreatedAt,
		RecordCount: len(b.Records),
		Valid:       b.Records != nil,
	}
}

func (h *Handler) status(ctx context.Context, _ *struct{}) (*StatusOutput, error) {
	status, err := h.MigrationService.Status(ctx)
	if err != nil {
		return nil, apierror.FromService(ctx, err, "failed to read migration state")
	}
	return &StatusOutput{Body: toStatusBody(status)}, nil
}

func (h *Handler) migrate(ctx context.Context, _ *struct{}) (*MigrateOutput, error) {
	logData := logging.GetLogData(ctx)

	n, err := h.MigrationService.Migrate(ctx)
	if logData != nil {
		logData.AddData("migratedCount", n)
	}
	switch {
	case err == nil:
		return &MigrateOutput{Body: MigrateBody{MigratedCount: n}}, nil
	case record.IsRemoteWrite(err):
		if logData != nil {
			logData.AddError(err)
		}
		return &MigrateOutput{Body: MigrateBody{Error: err.Error()}}, nil
	default:
		return nil, apierror.FromService(ctx, err, "failed to migrate")
	}
}

func (h *Handler) skip(ctx context.Context, _ *struct{}) (*StatusOutput, error) {
	if err := h.MigrationService.Skip(ctx); err != nil {
		return nil, apierror.FromService(ctx, err, "failed to skip migration")
	}
	return h.status(ctx, nil)
}

func (h *Handler) reset(ctx context.Context, _ *struct{}) (*StatusOutput, error) {
	if err := h.MigrationService.Reset(ctx); err != nil {
		return nil, apierror.FromService(ctx, err, "failed to reset migration")
	}
	return h.status(ctx, nil)
}

func (h *Handler) backups(ctx context.Context, _ *struct{}) (*BackupsOutput, error) {
	backups, err := h.MigrationService.Backups(ctx)
	if err != nil {
		return nil, apierror.FromService(ctx, err, "failed to list backups")
	}

	out := &BackupsOutput{}
	out.Body.Backups = make([]BackupBody, len(backups))
	for i, b := range backups {
		out.Body.Backups[i] = toBackupBody(b)
	}
	return out, nil
}

func (h *Handler) restore(ctx context.Context, _ *struct{}) (*RestoreOutput, error) {
	backup, err := h.MigrationService.RestoreLatestBackup(ctx)
	if err != nil {
		return nil, apierror.FromService(ctx, err, "failed to restore backup")
	}
	return &RestoreOutput{Body: toBackupBody(backup)}, nil
}
