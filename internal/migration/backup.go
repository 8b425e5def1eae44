package migration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/carson-networks/budget-sync/internal/local"
)

// Backup is a snapshot of the local payload taken right after a successful migration.
type Backup struct {
	Key       string
	CreatedAt time.Time
	Raw       string
	// Records is nil when Raw does not parse.
	Records []local.LocalRecord
}

func (e *Engine) backupKeys(ctx context.Context) ([]string, error) {
	raw, ok, err := e.cache.Get(ctx, BackupIndexKey)
	if err != nil || !ok {
		return nil, err
	}
	var keys []string
	if err := json.Unmarshal([]byte(raw), &keys); err != nil {
		e.logger.WithError(err).Warn("migration.backupKeys: unreadable backup index, ignoring")
		return nil, nil
	}
	return keys, nil
}

// writeBackup stores raw under a new timestamped key and records it in the index.
// Existing backups are never touched.
func (e *Engine) writeBackup(ctx context.Context, raw string) (string, error) {
	keys, err := e.backupKeys(ctx)
	if err != nil {
		return "", err
	}

	ms := e.now().UnixMilli()
	key := BackupPrefix + strconv.FormatInt(ms, 10)
	for slices.Contains(keys, key) {
		ms++
		key = BackupPrefix + strconv.FormatInt(ms, 10)
	}

	if err := e.cache.Set(ctx, key, raw); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}

	index, err := json.Marshal(append(keys, key))
	if err != nil {
		return "", err
	}
	if err := e.cache.Set(ctx, BackupIndexKey, string(index)); err != nil {
		return "", fmt.Errorf("write backup index: %w", err)
	}
	return key, nil
}

// Backups lists the stored snapshots, newest first.
func (e *Engine) Backups(ctx context.Context) ([]Backup, error) {
	keys, err := e.backupKeys(ctx)
	if err != nil {
		return nil, err
	}

	backups := make([]Backup, 0, len(keys))
	for _, key := range keys {
		raw, ok, err := e.cache.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		b := Backup{Key: key, Raw: raw}
		if ms, err := strconv.ParseInt(strings.TrimPrefix(key, BackupPrefix), 10, 64); err == nil {
			b.CreatedAt = time.UnixMilli(ms).UTC()
		}
		if records, err := local.ParseRecords(raw); err == nil {
			b.Records = records
		}
		backups = append(backups, b)
	}

	slices.SortFunc(backups, func(a, b Backup) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return backups, nil
}

// ErrNoBackup is returned by RestoreLatestBackup when no snapshot exists.
var ErrNoBackup = errors.New("no backup to restore")

// RestoreLatestBackup copies the newest snapshot back into the local payload and
// resets the state to unset so the data can be migrated again.
func (e *Engine) RestoreLatestBackup(ctx context.Context) (Backup, error) {
	backups, err := e.Backups(ctx)
	if err != nil {
		return Backup{}, err
	}
	if len(backups) == 0 {
		return Backup{}, ErrNoBackup
	}

	latest := backups[0]
	if err := e.cache.Set(ctx, local.RecordsKey, latest.Raw); err != nil {
		return Backup{}, fmt.Errorf("restore backup: %w", err)
	}
	if err := e.setState(ctx, StateUnset); err != nil {
		return Backup{}, fmt.Errorf("restore backup: %w", err)
	}

	e.logger.WithField("backup", latest.Key).Info("migration.RestoreLatestBackup")
	return latest, nil
}
