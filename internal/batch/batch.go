// Package batch groups ready queue items into network batches. Grouping is
// pure slicing logic: the engine dequeues, the builder cuts, the adapter
// ships.
package batch

import (
	"github.com/ascentlog/crag-sync/models"
)

// DefaultMaxSize bounds how many items one network batch carries when the
// configuration does not say otherwise.
const DefaultMaxSize = 50

// Batch is one upload unit. Atomic batches apply all-or-nothing on the
// server and are re-queued whole when any member fails.
type Batch struct {
	// Items are the queue items in upload order.
	Items []models.SyncQueueItem

	// BatchID is the shared group id for atomic batches, empty otherwise.
	BatchID string

	// Atomic reports whether the batch must apply all-or-nothing.
	Atomic bool
}

// Builder cuts dequeued items into batches bounded by maxSize.
type Builder struct {
	maxSize int
}

// NewBuilder constructs a [Builder]. Sizes below one fall back to
// [DefaultMaxSize].
func NewBuilder(maxSize int) Builder {
	if maxSize < 1 {
		maxSize = DefaultMaxSize
	}

	return Builder{maxSize: maxSize}
}

// MaxSize reports the configured batch size bound.
func (b Builder) MaxSize() int {
	return b.maxSize
}

// Build cuts the items into upload batches:
//
//   - items sharing a batch_id form one atomic batch, emitted at the queue
//     position of its first member and never split even when the group
//     exceeds the size bound
//   - loose items fill plain batches of at most maxSize, free to partially
//     succeed item by item
//
// Input order is preserved within and across batches. The input slice is
// assumed already ordered by the queue (priority, then enqueue time).
func (b Builder) Build(items []models.SyncQueueItem) []Batch {
	if len(items) == 0 {
		return nil
	}

	// Collect atomic groups first so a group split across the input (other
	// priorities interleaved) still uploads as one batch.
	groups := make(map[string][]models.SyncQueueItem)
	for _, item := range items {
		if item.BatchID != "" {
			groups[item.BatchID] = append(groups[item.BatchID], item)
		}
	}

	var (
		batches []Batch
		loose   []models.SyncQueueItem
		emitted = make(map[string]bool, len(groups))
	)

	flushLoose := func() {
		for len(loose) > 0 {
			size := b.maxSize
			if size > len(loose) {
				size = len(loose)
			}
			batches = append(batches, Batch{Items: loose[:size:size]})
			loose = loose[size:]
		}
	}

	for _, item := range items {
		if item.BatchID == "" {
			loose = append(loose, item)
			if len(loose) == b.maxSize {
				flushLoose()
			}
			continue
		}

		if emitted[item.BatchID] {
			continue
		}
		emitted[item.BatchID] = true

		// The atomic group takes the position of its first member.
		flushLoose()
		batches = append(batches, Batch{
			Items:   groups[item.BatchID],
			BatchID: item.BatchID,
			Atomic:  true,
		})
	}
	flushLoose()

	return batches
}
