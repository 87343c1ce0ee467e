package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ascentlog/crag-sync/internal/logger"
)

func TestRegistry_RegisterAndGet(t *testing.T) {
	registry := NewRegistry(logger.Nop())
	records := newTestRecords(t)

	climbs, err := NewDocumentAdapter("climb", records, logger.Nop())
	require.NoError(t, err)
	sessions, err := NewDocumentAdapter("session", records, logger.Nop())
	require.NoError(t, err)

	require.NoError(t, registry.Register(climbs))
	require.NoError(t, registry.Register(sessions))

	got, err := registry.Get("climb")
	require.NoError(t, err)
	assert.Equal(t, "climb", got.EntityType())

	assert.Equal(t, []string{"climb", "session"}, registry.Types(),
		"registration order must be preserved")
}

func TestRegistry_DuplicateEntityType(t *testing.T) {
	registry := NewRegistry(logger.Nop())
	records := newTestRecords(t)

	first, err := NewDocumentAdapter("climb", records, logger.Nop())
	require.NoError(t, err)
	second, err := NewDocumentAdapter("climb", records, logger.Nop())
	require.NoError(t, err)

	require.NoError(t, registry.Register(first))

	dupErr := registry.Register(second)
	require.Error(t, dupErr)
	assert.ErrorIs(t, dupErr, ErrDuplicateEntityType)

	assert.Equal(t, []string{"climb"}, registry.Types())
}

func TestRegistry_GetUnknown(t *testing.T) {
	registry := NewRegistry(logger.Nop())

	_, err := registry.Get("gear")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownEntityType)
}

func TestRegistry_RegisterNil(t *testing.T) {
	registry := NewRegistry(logger.Nop())

	err := registry.Register(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidAdapter)
}

func TestRegistry_TypesCopy(t *testing.T) {
	registry := NewRegistry(logger.Nop())
	records := newTestRecords(t)

	climbs, err := NewDocumentAdapter("climb", records, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, registry.Register(climbs))

	types := registry.Types()
	types[0] = "mutated"

	assert.Equal(t, []string{"climb"}, registry.Types(),
		"callers must not be able to mutate the registry's order")
}
