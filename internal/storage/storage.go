package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/stephenafamo/bob"

	"github.com/carson-networks/budget-sync/internal/config"
	"github.com/carson-networks/budget-sync/internal/storage/changefeed"
	"github.com/carson-networks/budget-sync/internal/storage/memory"
	"github.com/carson-networks/budget-sync/internal/storage/sqlconfig"
)

// Storage is the remote store: owner-scoped record reads, a change feed, and
// transactional writers for the operator.
type Storage struct {
	DB      *sql.DB
	Records sqlconfig.IRecordTable
	Feed    changefeed.IFeed

	begin func(ctx context.Context) (*Writer, error)
}

// NewStorage connects to PostgreSQL. The connection is verified before returning.
func NewStorage(ctx context.Context, env *config.Config, logger *logrus.Logger) (*Storage, error) {
	dsn := env.PostgresDSN()
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return NewStorageFromDB(db, changefeed.NewPQFeed(dsn, logger)), nil
}

// NewStorageFromDB wraps an open database and a feed.
func NewStorageFromDB(db *sql.DB, feed changefeed.IFeed) *Storage {
	exec := bob.NewDB(db)
	return &Storage{
		DB:      db,
		Records: sqlconfig.NewRecordsTable(exec),
		Feed:    feed,
		begin: func(ctx context.Context) (*Writer, error) {
			tx, err := exec.BeginTx(ctx, nil)
			if err != nil {
				return nil, err
			}
			return &Writer{
				Records:  sqlconfig.NewRecordsTable(tx),
				commit:   func(context.Context) error { return tx.Commit() },
				rollback: func(context.Context) error { return tx.Rollback() },
			}, nil
		},
	}
}

// NewMemoryStorage serves records and changes from an in-process store. Writers
// apply immediately, so Rollback cannot undo a write.
func NewMemoryStorage(store *memory.Store) *Storage {
	return NewStorageFromTable(store, store)
}

// NewStorageFromTable builds a Storage over any table and feed, with
// non-transactional writers.
func NewStorageFromTable(records sqlconfig.IRecordTable, feed changefeed.IFeed) *Storage {
	return &Storage{
		Records: records,
		Feed:    feed,
		begin: func(context.Context) (*Writer, error) {
			return &Writer{Records: records}, nil
		},
	}
}

// Write opens a writer. Callers must Commit or Rollback it.
func (s *Storage) Write(ctx context.Context) (*Writer, error) {
	return s.begin(ctx)
}

func (s *Storage) Close() error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Close()
}
