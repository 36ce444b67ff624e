package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sangkips/repairpos/internal/domain/entity"
	"github.com/sangkips/repairpos/internal/domain/repository"
	"github.com/sangkips/repairpos/pkg/apperror"
	"github.com/sangkips/repairpos/pkg/utils"
)

// Connectivity reports whether the transaction store can be reached.
type Connectivity interface {
	IsOnline(ctx context.Context) bool
}

// Committer commits a sale to the transaction store.
type Committer interface {
	Commit(ctx context.Context, input *CommitInput) (*CommitResult, error)
}

// SyncResult counts the outcome of one sync pass.
type SyncResult struct {
	Success int `json:"success"`
	Failed  int `json:"failed"`
}

// SyncService buffers sales while offline and replays them in order once the
// transaction store is reachable again.
type SyncService struct {
	queue        repository.OfflineQueueRepository
	committer    Committer
	connectivity Connectivity
	syncing      atomic.Bool
}

// NewSyncService creates a new sync service
func NewSyncService(queue repository.OfflineQueueRepository, committer Committer, connectivity Connectivity) *SyncService {
	return &SyncService{
		queue:        queue,
		committer:    committer,
		connectivity: connectivity,
	}
}

// IsOnline reports the current connectivity.
func (s *SyncService) IsOnline(ctx context.Context) bool {
	return s.connectivity.IsOnline(ctx)
}

// Enqueue stores a sale for later commit. The client reference becomes the
// entry's local id, so replaying the same sale twice commits it once.
func (s *SyncService) Enqueue(ctx context.Context, input *CommitInput) (*entity.OfflineEntry, error) {
	if errs := validateCommit(input); len(errs) > 0 {
		return nil, apperror.NewValidationError(errs)
	}

	now := time.Now().UTC()
	if input.ClientReference == "" {
		input.ClientReference = utils.NewLocalID()
	}
	if input.CapturedAt == nil {
		input.CapturedAt = &now
	}

	payload, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("failed to encode offline sale: %w", err)
	}

	entry := &entity.OfflineEntry{
		LocalID:    input.ClientReference,
		Payload:    string(payload),
		Status:     entity.OfflineEntryPending,
		EnqueuedAt: now.UnixNano(),
	}
	if err := s.queue.Enqueue(ctx, entry); err != nil {
		return nil, err
	}

	log.Infof("queued offline sale %s (#%d)", entry.LocalID, entry.Seq)
	return entry, nil
}

// Pending lists the queued sales in sync order.
func (s *SyncService) Pending(ctx context.Context) ([]entity.OfflineEntry, error) {
	return s.queue.List(ctx)
}

// Depth returns the number of queued sales.
func (s *SyncService) Depth(ctx context.Context) (int, error) {
	return s.queue.Count(ctx)
}

// SyncAll replays every queued sale in FIFO order, one at a time. A failed
// entry stays queued and the pass continues with the next one. Rejected
// entries are skipped. Only one pass runs at a time; a concurrent call gets a
// Conflict error.
func (s *SyncService) SyncAll(ctx context.Context) (*SyncResult, error) {
	if !s.syncing.CompareAndSwap(false, true) {
		return nil, apperror.NewConflictError("Sync already in progress")
	}
	defer s.syncing.Store(false)

	queued, err := s.queue.List(ctx)
	if err != nil {
		return nil, apperror.NewStorageError("list", err)
	}
	entries := queued[:0]
	for _, entry := range queued {
		if entry.Status != entity.OfflineEntryRejected {
			entries = append(entries, entry)
		}
	}

	result := &SyncResult{}
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			log.Warningf("sync stopped with %d entries left: %v", len(entries)-result.Success-result.Failed, err)
			return result, err
		}

		if err := s.syncEntry(ctx, entry); err != nil {
			result.Failed++
			log.Warningf("offline sale %s failed to sync: %v", entry.LocalID, err)
			continue
		}
		result.Success++
	}

	if len(entries) > 0 {
		log.Infof("sync finished: %d synced, %d failed", result.Success, result.Failed)
	}
	return result, nil
}

func (s *SyncService) syncEntry(ctx context.Context, entry entity.OfflineEntry) error {
	if err := s.queue.MarkSyncing(ctx, entry.LocalID); err != nil {
		return err
	}

	var input CommitInput
	if err := json.Unmarshal([]byte(entry.Payload), &input); err != nil {
		err = fmt.Errorf("corrupt payload: %w", err)
		s.markRejected(ctx, entry.LocalID, err)
		return err
	}
	input.ClientReference = entry.LocalID

	// Once a commit has started it runs to completion; cancellation only stops the pass between entries.
	result, err := s.committer.Commit(context.WithoutCancel(ctx), &input)
	if err != nil {
		if apperror.IsValidation(err) || apperror.IsNotFound(err) {
			s.markRejected(ctx, entry.LocalID, err)
		} else {
			s.markFailed(ctx, entry.LocalID, err)
		}
		return err
	}

	if err := s.queue.Remove(context.WithoutCancel(ctx), entry.LocalID); err != nil {
		// The sale is committed; the next pass finds it by client reference.
		return fmt.Errorf("committed as %s but not removed from queue: %w", result.Transaction.ReceiptNo, err)
	}

	if result.Duplicate {
		log.Infof("offline sale %s was already committed as %s", entry.LocalID, result.Transaction.ReceiptNo)
	} else {
		log.Infof("offline sale %s committed as %s", entry.LocalID, result.Transaction.ReceiptNo)
	}
	return nil
}

func (s *SyncService) markFailed(ctx context.Context, localID string, cause error) {
	if err := s.queue.MarkFailed(context.WithoutCancel(ctx), localID, cause.Error()); err != nil {
		log.Errorf("failed to record sync failure of %s: %v", localID, err)
	}
}

// markRejected parks a sale that will fail the same way on every replay.
func (s *SyncService) markRejected(ctx context.Context, localID string, cause error) {
	log.Warningf("offline sale %s rejected: %v", localID, cause)
	if err := s.queue.MarkRejected(context.WithoutCancel(ctx), localID, cause.Error()); err != nil {
		log.Errorf("failed to record rejection of %s: %v", localID, err)
	}
}

// Run syncs the queue every interval while the transaction store is reachable.
func (s *SyncService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *SyncService) tick(ctx context.Context) {
	depth, err := s.queue.Count(ctx)
	if err != nil {
		log.Errorf("failed to read offline queue depth: %v", err)
		return
	}
	if depth == 0 || !s.connectivity.IsOnline(ctx) {
		return
	}

	if _, err := s.SyncAll(ctx); err != nil && !apperror.IsConflict(err) && ctx.Err() == nil {
		log.Errorf("background sync failed: %v", err)
	}
}
