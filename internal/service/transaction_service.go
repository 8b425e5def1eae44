package service

import (
	"context"

	"github.com/carson-networks/budget-sync/internal/record"
	"github.com/carson-networks/budget-sync/internal/repository"
)

const defaultLimit = 20

// TransactionService handles transaction business logic for the signed-in user.
type TransactionService struct {
	session *SessionService
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(session *SessionService) *TransactionService {
	return &TransactionService{session: session}
}

// ListTransactions returns a page of the live view in view order.
func (s *TransactionService) ListTransactions(_ context.Context, cursor *TransactionCursor) ([]Transaction, *TransactionCursor, error) {
	repo, err := s.session.Repository()
	if err != nil {
		return nil, nil, err
	}

	limit := defaultLimit
	offset := 0
	if cursor != nil {
		if cursor.Limit > 0 {
			limit = cursor.Limit
		}
		offset = cursor.Position
	}

	view := repo.Snapshot()
	if offset >= len(view) {
		return nil, nil, nil
	}
	rows := view[offset:]

	var nextCursor *TransactionCursor
	if len(rows) > limit {
		rows = rows[:limit]
		nextCursor = &TransactionCursor{
			Position: offset + limit,
			Limit:    limit,
		}
	}

	convertedTransactions := make([]Transaction, len(rows))
	for i, row := range rows {
		convertedTransactions[i] = transactionFromRecord(row)
	}

	return convertedTransactions, nextCursor, nil
}

// CreateTransaction stores a new transaction and returns it as stored.
func (s *TransactionService) CreateTransaction(ctx context.Context, transaction Transaction) (Transaction, error) {
	repo, err := s.session.Repository()
	if err != nil {
		return Transaction{}, err
	}

	stored, err := repo.Add(ctx, record.Create{
		ID:          transaction.ID,
		Description: transaction.Description,
		Amount:      transaction.Amount,
		Category:    transaction.Category,
		Kind:        transaction.Kind,
		Date:        transaction.Date,
	})
	if err != nil {
		return Transaction{}, err
	}
	return transactionFromRecord(stored), nil
}

func (s *TransactionService) UpdateTransaction(ctx context.Context, id string, patch record.Patch) (Transaction, error) {
	repo, err := s.session.Repository()
	if err != nil {
		return Transaction{}, err
	}

	updated, err := repo.Update(ctx, id, patch)
	if err != nil {
		return Transaction{}, err
	}
	return transactionFromRecord(updated), nil
}

func (s *TransactionService) DeleteTransaction(ctx context.Context, id string) error {
	repo, err := s.session.Repository()
	if err != nil {
		return err
	}
	return repo.Remove(ctx, id)
}

// Refetch reloads the view from the remote store.
func (s *TransactionService) Refetch(ctx context.Context) (SyncStatus, error) {
	repo, err := s.session.Repository()
	if err != nil {
		return SyncStatus{}, err
	}
	err = repo.Refetch(ctx)
	return syncStatus(repo), err
}

func (s *TransactionService) Status(_ context.Context) (SyncStatus, error) {
	repo, err := s.session.Repository()
	if err != nil {
		return SyncStatus{}, err
	}
	return syncStatus(repo), nil
}

func syncStatus(repo *repository.Repository) SyncStatus {
	status := repo.Status()
	out := SyncStatus{
		State:   status.State,
		OwnerID: status.OwnerID,
		Size:    status.Size,
	}
	if status.Err != nil {
		out.Error = status.Err.Error()
	}
	return out
}
