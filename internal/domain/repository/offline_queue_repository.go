package repository

import (
	"context"

	"github.com/sangkips/repairpos/internal/domain/entity"
)

// OfflineQueueRepository is the local durable buffer of uncommitted sales
type OfflineQueueRepository interface {
	// Enqueue appends an entry and fills in Seq. Failures are StorageErrors.
	Enqueue(ctx context.Context, entry *entity.OfflineEntry) error
	// List returns every entry in enqueue order.
	List(ctx context.Context) ([]entity.OfflineEntry, error)
	Count(ctx context.Context) (int, error)
	MarkSyncing(ctx context.Context, localID string) error
	MarkFailed(ctx context.Context, localID string, reason string) error
	MarkRejected(ctx context.Context, localID string, reason string) error
	Remove(ctx context.Context, localID string) error
}
