package entity

import "time"

// OfflineEntryStatus is the sync state of a queued sale
type OfflineEntryStatus string

const (
	OfflineEntryPending    OfflineEntryStatus = "pending"
	OfflineEntrySyncing    OfflineEntryStatus = "syncing"
	OfflineEntrySyncFailed OfflineEntryStatus = "sync_failed"
	// OfflineEntryRejected is terminal: the sale can never commit as captured
	// and stays queued until someone reviews it.
	OfflineEntryRejected OfflineEntryStatus = "rejected"
)

// OfflineEntry is a sale captured while the transaction store was unreachable.
// Payload is the JSON encoded commit request. Entries are deleted once synced.
type OfflineEntry struct {
	Seq        int64              `db:"seq" json:"seq"`
	LocalID    string             `db:"local_id" json:"local_id"`
	Payload    string             `db:"payload" json:"-"`
	Status     OfflineEntryStatus `db:"status" json:"status"`
	Attempts   int                `db:"attempts" json:"attempts"`
	LastError  string             `db:"last_error" json:"last_error,omitempty"`
	EnqueuedAt int64              `db:"enqueued_at" json:"-"`
}

// EnqueuedTime returns the local time the sale was queued.
func (e *OfflineEntry) EnqueuedTime() time.Time {
	return time.Unix(0, e.EnqueuedAt).UTC()
}
