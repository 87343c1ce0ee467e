// Package resolver decides which snapshot wins when the local and remote
// state of an entity diverge. Detection and resolution are deterministic and
// side-effect free: the engine persists whatever the resolver returns.
package resolver

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ascentlog/crag-sync/internal/config"
	"github.com/ascentlog/crag-sync/internal/logger"
	"github.com/ascentlog/crag-sync/internal/utils"
	"github.com/ascentlog/crag-sync/models"
)

// volatileFields are excluded from content hashing: they change on every
// write without representing user content. Client documents use both
// snake_case and camelCase spellings.
var volatileFields = []string{"id", "created_at", "createdAt", "updated_at", "updatedAt"}

// Resolution is the outcome of resolving one divergence. The snapshot is
// always fed back into ApplyRemoteChanges; the flags tell the engine what
// else has to happen.
type Resolution struct {
	// Snapshot is the winning state to apply locally.
	Snapshot models.EntitySnapshot

	// RequeueLocal signals that the winning state originated on this device
	// (clientWins, a local lastWriteWins winner, or a merge) and must be
	// re-queued for upload so the server converges on it too.
	RequeueLocal bool

	// Deferred signals the resolution awaits an explicit user decision and
	// the applied snapshot is provisional.
	Deferred bool

	// Conflict is the inbox record to persist when Deferred is set. The id
	// is left empty; the engine assigns it.
	Conflict *models.ConflictRecord
}

// Resolver applies conflict strategies to divergent snapshots.
type Resolver struct {
	logger      *logger.Logger
	mergeFields []string

	// now is the clock stamped onto merge results. Injectable so merge
	// output is reproducible in tests.
	now func() time.Time
}

// NewResolver constructs a [Resolver]. The merge allow-list comes from the
// sync configuration.
func NewResolver(cfg config.ClientSync, logger *logger.Logger) *Resolver {
	logger.Debug().Strs("merge_fields", cfg.MergeFields).Msg("creating conflict resolver")

	return &Resolver{
		logger:      logger,
		mergeFields: cfg.MergeFields,
		now:         time.Now,
	}
}

// ContentEqual reports whether two snapshots carry the same user content.
// Payloads are compared by canonical hash with volatile fields excluded, so
// field order and bookkeeping timestamps do not register as changes.
// Tombstone state participates: a live and a deleted snapshot never match.
func ContentEqual(local, remote models.EntitySnapshot) bool {
	if local.Deleted != remote.Deleted {
		return false
	}

	return utils.CanonicalHash(local.Payload, volatileFields...) ==
		utils.CanonicalHash(remote.Payload, volatileFields...)
}

// Detect reports whether the local and remote state of one entity diverge in
// a way that needs strategy resolution. since is the watermark the download
// was requested from: a local edit stamped after it ran concurrently with the
// remote write. Older local state is simply stale and the remote write is
// accepted without conflict.
func (r *Resolver) Detect(local, remote models.EntitySnapshot, since time.Time) bool {
	if ContentEqual(local, remote) {
		return false
	}

	return local.UpdatedAt.After(since)
}

// Resolve produces the winning snapshot for a detected conflict.
func (r *Resolver) Resolve(strategy models.Strategy, local, remote models.EntitySnapshot) (Resolution, error) {
	switch strategy {
	case models.StrategyServerWins:
		return Resolution{Snapshot: remote}, nil

	case models.StrategyClientWins:
		return Resolution{Snapshot: local, RequeueLocal: true}, nil

	case models.StrategyLastWriteWins:
		return r.lastWriteWins(local, remote), nil

	case models.StrategyMerge:
		return r.merge(local, remote), nil

	case models.StrategyUserChoice:
		return Resolution{
			Snapshot: remote,
			Deferred: true,
			Conflict: &models.ConflictRecord{
				UserID:     remote.UserID,
				EntityType: remote.EntityType,
				EntityID:   remote.EntityID,
				Local:      local,
				Remote:     remote,
				Strategy:   strategy,
				DetectedAt: r.now(),
			},
		}, nil

	default:
		return Resolution{}, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}
}

// lastWriteWins keeps the snapshot with the later entity-level updated_at.
// Ties favor remote so every device resolves the same way without
// coordination.
func (r *Resolver) lastWriteWins(local, remote models.EntitySnapshot) Resolution {
	if local.UpdatedAt.After(remote.UpdatedAt) {
		return Resolution{Snapshot: local, RequeueLocal: true}
	}

	return Resolution{Snapshot: remote}
}

// merge keeps the allow-listed fields from the local payload and everything
// else from the remote one. The merged document is new content, so its
// updated_at is reset to now and it is re-queued for upload. Tombstones and
// payloads that are not JSON objects cannot be field-merged and degrade to
// last-write-wins.
func (r *Resolver) merge(local, remote models.EntitySnapshot) Resolution {
	if local.Deleted || remote.Deleted {
		return r.lastWriteWins(local, remote)
	}

	var localDoc, remoteDoc map[string]any
	if err := json.Unmarshal(local.Payload, &localDoc); err != nil || localDoc == nil {
		r.logger.Debug().
			Str("func", "Resolver.merge").
			Str("entity_id", local.EntityID).
			Msg("local payload is not a JSON object, falling back to lastWriteWins")
		return r.lastWriteWins(local, remote)
	}
	if err := json.Unmarshal(remote.Payload, &remoteDoc); err != nil || remoteDoc == nil {
		r.logger.Debug().
			Str("func", "Resolver.merge").
			Str("entity_id", remote.EntityID).
			Msg("remote payload is not a JSON object, falling back to lastWriteWins")
		return r.lastWriteWins(local, remote)
	}

	for _, field := range r.mergeFields {
		if value, ok := localDoc[field]; ok {
			remoteDoc[field] = value
		}
	}

	now := r.now()
	for _, key := range []string{"updated_at", "updatedAt"} {
		if _, ok := remoteDoc[key]; ok {
			remoteDoc[key] = now.UTC().Format(time.RFC3339Nano)
		}
	}

	payload, err := json.Marshal(remoteDoc)
	if err != nil {
		return r.lastWriteWins(local, remote)
	}

	merged := remote
	merged.Payload = payload
	merged.UpdatedAt = now

	return Resolution{Snapshot: merged, RequeueLocal: true}
}
