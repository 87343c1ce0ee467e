package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ascentlog/crag-sync/internal/logger"
	"github.com/ascentlog/crag-sync/internal/store"
	"github.com/ascentlog/crag-sync/models"
)

// Meta extracts sync metadata from an entity. EntityID is required.
// UpdatedAt may be nil or return the zero time, in which case writes are
// stamped with the current time.
type Meta[T any] struct {
	// EntityID returns the stable identifier of the entity.
	EntityID func(entity T) string

	// UpdatedAt returns the entity-level modification time.
	UpdatedAt func(entity T) time.Time
}

// Adapter provides the [Syncable] contract for one entity type over the
// local document store, plus typed Save/Load/List access for the
// application. The engine side and the application side share the same
// rows: a Save marks the record dirty, the next sync picks it up.
type Adapter[T any] struct {
	entityType string
	records    store.LocalRecordRepository
	codec      Codec[T]
	meta       Meta[T]
	logger     *logger.Logger

	// lastSync mirrors the engine's watermark store, which stays
	// authoritative. Kept in memory per user.
	mu       sync.RWMutex
	lastSync map[int64]time.Time
}

// NewAdapter constructs an [Adapter] for one entity type over the local
// record store.
func NewAdapter[T any](entityType string, records store.LocalRecordRepository, codec Codec[T], meta Meta[T], logger *logger.Logger) (*Adapter[T], error) {
	switch {
	case entityType == "":
		return nil, fmt.Errorf("%w: entity type is empty", ErrInvalidAdapter)
	case records == nil:
		return nil, fmt.Errorf("%w: local record store is nil", ErrInvalidAdapter)
	case codec == nil:
		return nil, fmt.Errorf("%w: codec is nil", ErrInvalidAdapter)
	case meta.EntityID == nil:
		return nil, fmt.Errorf("%w: entity id extractor is nil", ErrInvalidAdapter)
	}

	logger.Debug().Str("entity_type", entityType).Msg("creating repository adapter")

	return &Adapter[T]{
		entityType: entityType,
		records:    records,
		codec:      codec,
		meta:       meta,
		logger:     logger,
		lastSync:   make(map[int64]time.Time),
	}, nil
}

// NewDocumentAdapter builds an adapter for schemaless JSON documents that
// carry their own "id" and "updated_at" (or "updatedAt") fields, such as
// climb and session logs produced by the mobile clients. Payloads are stored
// byte-for-byte as submitted.
func NewDocumentAdapter(entityType string, records store.LocalRecordRepository, logger *logger.Logger) (*Adapter[json.RawMessage], error) {
	return NewAdapter[json.RawMessage](entityType, records, RawJSONCodec{}, documentMeta(), logger)
}

// documentMeta extracts id and modification time from a raw JSON document.
func documentMeta() Meta[json.RawMessage] {
	return Meta[json.RawMessage]{
		EntityID: func(doc json.RawMessage) string {
			var probe struct {
				ID string `json:"id"`
			}
			if err := json.Unmarshal(doc, &probe); err != nil {
				return ""
			}
			return probe.ID
		},
		UpdatedAt: func(doc json.RawMessage) time.Time {
			var probe struct {
				Snake time.Time `json:"updated_at"`
				Camel time.Time `json:"updatedAt"`
			}
			if err := json.Unmarshal(doc, &probe); err != nil {
				return time.Time{}
			}
			if !probe.Snake.IsZero() {
				return probe.Snake
			}
			return probe.Camel
		},
	}
}

// EntityType returns the registry key of the adapter.
func (a *Adapter[T]) EntityType() string {
	return a.entityType
}

// Save serializes the entity and upserts it into the local store, marking
// the record dirty so the next sync run uploads it.
func (a *Adapter[T]) Save(ctx context.Context, userID int64, entity T) error {
	payload, err := a.codec.Serialize(entity)
	if err != nil {
		return err
	}

	entityID := a.meta.EntityID(entity)
	if entityID == "" {
		return fmt.Errorf("%w: entity type %q", ErrMissingEntityID, a.entityType)
	}

	updatedAt := time.Now()
	if a.meta.UpdatedAt != nil {
		if ts := a.meta.UpdatedAt(entity); !ts.IsZero() {
			updatedAt = ts
		}
	}

	return a.records.Upsert(ctx, models.LocalRecord{
		UserID:     userID,
		EntityType: a.entityType,
		EntityID:   entityID,
		Payload:    payload,
		UpdatedAt:  updatedAt,
	})
}

// Load returns one live entity by id. Tombstoned and missing entities both
// yield [ErrEntityNotFound].
func (a *Adapter[T]) Load(ctx context.Context, userID int64, entityID string) (T, error) {
	var zero T

	record, err := a.records.Get(ctx, userID, a.entityType, entityID)
	if errors.Is(err, store.ErrRecordNotFound) {
		return zero, ErrEntityNotFound
	}
	if err != nil {
		return zero, err
	}
	if record.Deleted {
		return zero, ErrEntityNotFound
	}

	return a.codec.Deserialize(record.Payload)
}

// List returns every live entity of the adapter's type for a user.
func (a *Adapter[T]) List(ctx context.Context, userID int64) ([]T, error) {
	records, err := a.records.List(ctx, userID, a.entityType)
	if err != nil {
		return nil, err
	}

	entities := make([]T, 0, len(records))
	for _, record := range records {
		entity, decodeErr := a.codec.Deserialize(record.Payload)
		if decodeErr != nil {
			logger.FromContext(ctx).Err(decodeErr).
				Str("func", "Adapter.List").
				Str("entity_type", a.entityType).
				Str("entity_id", record.EntityID).
				Msg("stored payload does not match the entity schema")
			return nil, decodeErr
		}
		entities = append(entities, entity)
	}

	return entities, nil
}

// GetLocalChanges returns snapshots of entities modified since the last
// successful sync, tombstones included.
func (a *Adapter[T]) GetLocalChanges(ctx context.Context, userID int64) ([]models.EntitySnapshot, error) {
	records, err := a.records.ListDirty(ctx, userID, a.entityType)
	if err != nil {
		return nil, err
	}

	snapshots := make([]models.EntitySnapshot, 0, len(records))
	for i := range records {
		snapshots = append(snapshots, records[i].Snapshot())
	}

	return snapshots, nil
}

// ApplyRemoteChanges writes server snapshots into local storage, clearing
// the dirty flag. Non-tombstone payloads are decoded first so that a schema
// mismatch surfaces as [ErrSerialization] instead of corrupting the store.
// The underlying write is an upsert, which makes the apply idempotent.
func (a *Adapter[T]) ApplyRemoteChanges(ctx context.Context, userID int64, snapshots []models.EntitySnapshot) error {
	log := logger.FromContext(ctx)

	for _, snapshot := range snapshots {
		if !snapshot.Deleted {
			if _, err := a.codec.Deserialize(snapshot.Payload); err != nil {
				log.Err(err).
					Str("func", "Adapter.ApplyRemoteChanges").
					Str("entity_type", a.entityType).
					Str("entity_id", snapshot.EntityID).
					Msg("remote payload does not match the entity schema")
				return err
			}
		}

		snapshot.EntityType = a.entityType
		snapshot.UserID = userID

		if err := a.records.ApplyRemote(ctx, snapshot); err != nil {
			return err
		}
	}

	return nil
}

// GetByID returns the current local snapshot of one entity. Unlike Load it
// reports tombstones, which conflict resolution needs to see.
func (a *Adapter[T]) GetByID(ctx context.Context, userID int64, entityID string) (models.EntitySnapshot, error) {
	record, err := a.records.Get(ctx, userID, a.entityType, entityID)
	if errors.Is(err, store.ErrRecordNotFound) {
		return models.EntitySnapshot{}, ErrEntityNotFound
	}
	if err != nil {
		return models.EntitySnapshot{}, err
	}

	return record.Snapshot(), nil
}

// DeleteLocal tombstones an entity. The record stays in the store, dirty,
// until the delete has propagated to the server.
func (a *Adapter[T]) DeleteLocal(ctx context.Context, userID int64, entityID string) error {
	record, err := a.records.Get(ctx, userID, a.entityType, entityID)
	if errors.Is(err, store.ErrRecordNotFound) {
		return ErrEntityNotFound
	}
	if err != nil {
		return err
	}

	record.Deleted = true
	record.UpdatedAt = time.Now()

	return a.records.Upsert(ctx, record)
}

// GetLastSyncTime reports the adapter's mirror of the last successful sync
// for a user. Zero time means no sync has completed yet.
func (a *Adapter[T]) GetLastSyncTime(ctx context.Context, userID int64) (time.Time, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return a.lastSync[userID], nil
}

// SetLastSyncTime mirrors a watermark advance into the adapter.
func (a *Adapter[T]) SetLastSyncTime(ctx context.Context, userID int64, ts time.Time) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.lastSync[userID] = ts

	return nil
}
