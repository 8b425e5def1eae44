package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/budget-sync/internal/local"
	"github.com/carson-networks/budget-sync/internal/migration"
	"github.com/carson-networks/budget-sync/internal/record"
	"github.com/carson-networks/budget-sync/internal/repository"
)

// MigrationStatus is what the client needs to decide whether to offer a migration.
type MigrationStatus struct {
	State        migration.State
	Pending      bool
	PendingCount int
}

// MigrationService exposes the staging ledger and the one-shot migration.
type MigrationService struct {
	session *SessionService
	engine  *migration.Engine
	ledger  *local.Ledger
	logger  *logrus.Logger
}

func NewMigrationService(session *SessionService, engine *migration.Engine, ledger *local.Ledger, logger *logrus.Logger) *MigrationService {
	return &MigrationService{
		session: session,
		engine:  engine,
		ledger:  ledger,
		logger:  logger,
	}
}

func (s *MigrationService) Status(ctx context.Context) (MigrationStatus, error) {
	state, err := s.engine.State(ctx)
	if err != nil {
		return MigrationStatus{}, err
	}
	n, err := s.engine.PendingCount(ctx)
	if err != nil {
		return MigrationStatus{}, err
	}
	return MigrationStatus{State: state, Pending: n > 0, PendingCount: n}, nil
}

// CheckPending reports whether a migration should be offered.
func (s *MigrationService) CheckPending(ctx context.Context) (bool, error) {
	return s.engine.CheckPending(ctx)
}

// Migrate moves the staged records to the current user. When rows were written the
// live view is reloaded so it does not depend on the feed having delivered them.
func (s *MigrationService) Migrate(ctx context.Context) (int, error) {
	userID, ok := s.session.CurrentUser()
	if !ok {
		return 0, record.ErrNotAuthenticated
	}

	n, err := s.engine.Migrate(ctx, userID)
	if err != nil || n == 0 {
		return n, err
	}

	if repo, err := s.session.Repository(); err == nil && repo.Status().State == repository.StateReady {
		if err := repo.Refetch(ctx); err != nil {
			s.logger.WithError(err).Warn("MigrationService.Migrate: refetch after migration failed")
		}
	}
	return n, nil
}

func (s *MigrationService) Skip(ctx context.Context) error {
	return s.engine.Skip(ctx)
}

func (s *MigrationService) Reset(ctx context.Context) error {
	return s.engine.Reset(ctx)
}

func (s *MigrationService) Backups(ctx context.Context) ([]migration.Backup, error) {
	return s.engine.Backups(ctx)
}

func (s *MigrationService) RestoreLatestBackup(ctx context.Context) (migration.Backup, error) {
	return s.engine.RestoreLatestBackup(ctx)
}

func (s *MigrationService) ClearLocalData(ctx context.Context) error {
	return s.engine.ClearLocalData(ctx)
}

// LocalTransactions lists the records staged on this device.
func (s *MigrationService) LocalTransactions(ctx context.Context) ([]local.LocalRecord, error) {
	return s.ledger.List(ctx)
}

// StageTransaction keeps a record on this device until it is migrated.
func (s *MigrationService) StageTransaction(ctx context.Context, r local.LocalRecord) (local.LocalRecord, error) {
	return s.ledger.Stage(ctx, r)
}
