package service

import "errors"

var (
	// ErrSyncInFlight reports a coalesced trigger: a sync run for the same
	// user is already active. Callers treat it as a no-op, not a failure.
	ErrSyncInFlight = errors.New("sync already in flight")

	// ErrEngineClosed is returned by triggers arriving after Close.
	ErrEngineClosed = errors.New("sync engine is closed")

	// ErrUploadIncomplete reports that some items failed transiently during
	// the upload phase. The download is skipped and the watermark stays
	// untouched; the retry scheduler owns the failed items.
	ErrUploadIncomplete = errors.New("upload incomplete")

	// ErrItemDeadLettered is carried by the event emitted when an item
	// leaves the active queue for the dead-letter store.
	ErrItemDeadLettered = errors.New("item dead-lettered")

	ErrInvalidQueueItem      = errors.New("invalid queue item")
	ErrInvalidConflictChoice = errors.New("invalid conflict choice")

	ErrVersionIsNotSpecified = errors.New("application version is not specified")
)
