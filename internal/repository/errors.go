package repository

import "errors"

// Sentinel errors returned by repositories and the registry. Callers should
// use [errors.Is] to match against these values.
var (
	// ErrEntityNotFound is returned when a lookup targets an entity that does
	// not exist locally, or exists only as a tombstone.
	ErrEntityNotFound = errors.New("entity was not found")

	// ErrSerialization is returned when a payload cannot be encoded or
	// decoded by the repository's codec. The failure is permanent: retrying
	// the same bytes cannot succeed, so affected queue items are
	// dead-lettered immediately instead of burning attempts.
	ErrSerialization = errors.New("payload serialization failed")

	// ErrDuplicateEntityType is returned when a repository is registered
	// under an entity type that is already taken.
	ErrDuplicateEntityType = errors.New("entity type is already registered")

	// ErrUnknownEntityType is returned when a lookup names an entity type no
	// repository was registered for.
	ErrUnknownEntityType = errors.New("unknown entity type")

	// ErrInvalidAdapter is returned when an adapter is constructed without an
	// entity type, codec or meta extractor, or when a nil repository is
	// registered.
	ErrInvalidAdapter = errors.New("invalid adapter configuration")

	// ErrMissingEntityID is returned when a saved entity yields an empty id
	// from the meta extractor. Entities must carry their own stable ids so
	// that replays and merges address the same record on every device.
	ErrMissingEntityID = errors.New("entity id is empty")
)
