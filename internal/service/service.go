package service

import (
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/budget-sync/internal/insights"
	"github.com/carson-networks/budget-sync/internal/local"
	"github.com/carson-networks/budget-sync/internal/migration"
	"github.com/carson-networks/budget-sync/internal/operator"
	"github.com/carson-networks/budget-sync/internal/repository"
	"github.com/carson-networks/budget-sync/internal/storage"
)

// Service holds all business logic services.
type Service struct {
	Session     *SessionService
	Transaction *TransactionService
	Migration   *MigrationService
	Summary     *SummaryService
	Insights    *InsightsService
}

// NewService wires the services around one repository. generator may be nil, which
// turns insights off.
func NewService(
	store *storage.Storage,
	ops operator.IProcessor,
	cache local.ICache,
	generator insights.IGenerator,
	logger *logrus.Logger,
) *Service {
	repo := repository.New(store.Records, store.Feed, ops, logger)
	session := NewSessionService(repo, logger)
	summary := NewSummaryService(session)

	return &Service{
		Session:     session,
		Transaction: NewTransactionService(session),
		Migration:   NewMigrationService(session, migration.NewEngine(cache, ops, logger), local.NewLedger(cache), logger),
		Summary:     summary,
		Insights:    NewInsightsService(summary, generator),
	}
}
