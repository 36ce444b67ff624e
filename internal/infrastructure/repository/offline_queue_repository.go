package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/sangkips/repairpos/internal/domain/entity"
	domainRepo "github.com/sangkips/repairpos/internal/domain/repository"
	"github.com/sangkips/repairpos/pkg/apperror"
)

// ErrQueueFull is wrapped in the StorageError returned once the queue reaches its capacity.
var ErrQueueFull = errors.New("offline queue is full")

const offlineQueueSchema = `
CREATE TABLE IF NOT EXISTS offline_queue (
	seq         INTEGER PRIMARY KEY AUTOINCREMENT,
	local_id    TEXT    NOT NULL UNIQUE,
	payload     TEXT    NOT NULL,
	status      TEXT    NOT NULL DEFAULT 'pending',
	attempts    INTEGER NOT NULL DEFAULT 0,
	last_error  TEXT    NOT NULL DEFAULT '',
	enqueued_at INTEGER NOT NULL
)`

type offlineQueueRepository struct {
	db         *sqlx.DB
	maxEntries int
}

// NewOfflineQueueRepository creates the queue table if needed. maxEntries <= 0 means unbounded.
func NewOfflineQueueRepository(db *sqlx.DB, maxEntries int) (domainRepo.OfflineQueueRepository, error) {
	if _, err := db.Exec(offlineQueueSchema); err != nil {
		return nil, fmt.Errorf("failed to create offline queue table: %w", err)
	}
	return &offlineQueueRepository{db: db, maxEntries: maxEntries}, nil
}

func (r *offlineQueueRepository) Enqueue(ctx context.Context, entry *entity.OfflineEntry) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperror.NewStorageError("enqueue", err)
	}
	defer tx.Rollback()

	if r.maxEntries > 0 {
		var count int
		if err := tx.GetContext(ctx, &count, `SELECT COUNT(*) FROM offline_queue`); err != nil {
			return apperror.NewStorageError("enqueue", err)
		}
		if count >= r.maxEntries {
			return apperror.NewStorageError("enqueue", fmt.Errorf("%w (%d entries)", ErrQueueFull, count))
		}
	}

	if entry.Status == "" {
		entry.Status = entity.OfflineEntryPending
	}
	res, err := tx.NamedExecContext(ctx, `
		INSERT INTO offline_queue (local_id, payload, status, attempts, last_error, enqueued_at)
		VALUES (:local_id, :payload, :status, :attempts, :last_error, :enqueued_at)`, entry)
	if err != nil {
		return apperror.NewStorageError("enqueue", err)
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return apperror.NewStorageError("enqueue", err)
	}
	if err := tx.Commit(); err != nil {
		return apperror.NewStorageError("enqueue", err)
	}
	entry.Seq = seq
	return nil
}

func (r *offlineQueueRepository) List(ctx context.Context) ([]entity.OfflineEntry, error) {
	entries := []entity.OfflineEntry{}
	err := r.db.SelectContext(ctx, &entries, `
		SELECT seq, local_id, payload, status, attempts, last_error, enqueued_at
		FROM offline_queue
		ORDER BY seq ASC`)
	return entries, err
}

func (r *offlineQueueRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM offline_queue`)
	return count, err
}

func (r *offlineQueueRepository) MarkSyncing(ctx context.Context, localID string) error {
	return r.update(ctx, "mark syncing",
		`UPDATE offline_queue SET status = ? WHERE local_id = ?`,
		entity.OfflineEntrySyncing, localID)
}

func (r *offlineQueueRepository) MarkFailed(ctx context.Context, localID string, reason string) error {
	return r.update(ctx, "mark failed",
		`UPDATE offline_queue SET status = ?, attempts = attempts + 1, last_error = ? WHERE local_id = ?`,
		entity.OfflineEntrySyncFailed, reason, localID)
}

func (r *offlineQueueRepository) MarkRejected(ctx context.Context, localID string, reason string) error {
	return r.update(ctx, "mark rejected",
		`UPDATE offline_queue SET status = ?, attempts = attempts + 1, last_error = ? WHERE local_id = ?`,
		entity.OfflineEntryRejected, reason, localID)
}

func (r *offlineQueueRepository) Remove(ctx context.Context, localID string) error {
	return r.update(ctx, "remove", `DELETE FROM offline_queue WHERE local_id = ?`, localID)
}

func (r *offlineQueueRepository) update(ctx context.Context, op, query string, args ...interface{}) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return apperror.NewStorageError(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperror.NewStorageError(op, err)
	}
	if n == 0 {
		return apperror.NewNotFoundError("Offline entry")
	}
	return nil
}
