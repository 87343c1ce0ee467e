// Package repository defines the contract between the sync engine and the
// entity storage it drives, plus a generic adapter that provides the contract
// for any JSON-serializable entity type over the local document store.
//
// The engine works exclusively on [models.EntitySnapshot] values: it reads
// local changes, applies remote ones and never looks inside entity payloads.
// Typed access (Save, Load, List) is the application's side of the adapter.
package repository

import (
	"context"
	"time"

	"github.com/ascentlog/crag-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/repository_mock.go -package=mock

// Syncable is the per-entity-type contract the sync engine drives. One
// implementation is registered per entity type (e.g. "climb", "session").
type Syncable interface {
	// EntityType returns the registry key of the repository.
	EntityType() string

	// GetLocalChanges returns snapshots of entities modified since the last
	// successful sync, tombstones included.
	GetLocalChanges(ctx context.Context, userID int64) ([]models.EntitySnapshot, error)

	// ApplyRemoteChanges writes server snapshots into local storage and
	// clears the dirty flag on the touched entities. Must be idempotent:
	// applying the same snapshot twice yields the same local state.
	ApplyRemoteChanges(ctx context.Context, userID int64, snapshots []models.EntitySnapshot) error

	// GetByID returns the current local snapshot of one entity, tombstones
	// included. Returns [ErrEntityNotFound] if the entity never existed.
	GetByID(ctx context.Context, userID int64, entityID string) (models.EntitySnapshot, error)

	// DeleteLocal tombstones an entity locally. The delete still has to be
	// queued for upload by the caller.
	DeleteLocal(ctx context.Context, userID int64, entityID string) error

	// GetLastSyncTime reports the repository's view of the last successful
	// sync. The watermark store is authoritative; this value seeds a missing
	// watermark row.
	GetLastSyncTime(ctx context.Context, userID int64) (time.Time, error)

	// SetLastSyncTime mirrors a successful watermark advance back into the
	// repository.
	SetLastSyncTime(ctx context.Context, userID int64, ts time.Time) error
}

// Codec serializes entities of one type to and from payload bytes. The
// default is [JSONCodec]; implementations reporting failures should wrap
// [ErrSerialization] so the engine can classify them as permanent.
type Codec[T any] interface {
	// Serialize encodes an entity into payload bytes.
	Serialize(entity T) ([]byte, error)

	// Deserialize decodes payload bytes back into an entity.
	Deserialize(data []byte) (T, error)
}
