package repository

import (
	"fmt"
	"sync"

	"github.com/ascentlog/crag-sync/internal/logger"
)

// Registry holds the [Syncable] repositories the engine can drive, keyed by
// entity type. Registration order is preserved: a full sync pass walks the
// entity types in the order they were registered.
type Registry struct {
	logger *logger.Logger

	mu     sync.RWMutex
	byType map[string]Syncable
	order  []string
}

// NewRegistry constructs an empty [Registry].
func NewRegistry(logger *logger.Logger) *Registry {
	return &Registry{
		logger: logger,
		byType: make(map[string]Syncable),
	}
}

// Register adds a repository under its entity type.
func (r *Registry) Register(repo Syncable) error {
	if repo == nil {
		return fmt.Errorf("%w: repository is nil", ErrInvalidAdapter)
	}

	entityType := repo.EntityType()
	if entityType == "" {
		return fmt.Errorf("%w: entity type is empty", ErrInvalidAdapter)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byType[entityType]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateEntityType, entityType)
	}

	r.byType[entityType] = repo
	r.order = append(r.order, entityType)

	r.logger.Debug().Str("entity_type", entityType).Msg("registered syncable repository")

	return nil
}

// Get returns the repository registered for the given entity type.
func (r *Registry) Get(entityType string) (Syncable, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	repo, ok := r.byType[entityType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEntityType, entityType)
	}

	return repo, nil
}

// Types returns the registered entity types in registration order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, len(r.order))
	copy(types, r.order)

	return types
}
