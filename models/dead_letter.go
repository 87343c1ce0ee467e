package models

import "time"

// DeadLetterItem is a queue item removed from active retry, kept for
// inspection and out-of-band remediation. Items land here after
// exhausting MaxAttempts or on the first permanent error; they are never
// silently dropped.
type DeadLetterItem struct {
	SyncQueueItem

	// Reason is the failure class that removed the item from the queue:
	// ErrorClassFatal (attempts exhausted) or ErrorClassPermanent.
	Reason ErrorClass `json:"reason"`

	// DeadLetteredAt is when the item left the active queue.
	DeadLetteredAt time.Time `json:"dead_lettered_at"`
}

// TableName returns the name of the database table
// associated with the DeadLetterItem model.
func (d *DeadLetterItem) TableName() string {
	return "sync_dead_letters"
}
