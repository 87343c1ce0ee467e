package store

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_buildDequeueQuery(t *testing.T) {
	now := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		entityType string
		limit      int
		checkQuery func(t *testing.T, query string, args []any)
	}{
		{
			name:       "success: no filter, no limit",
			entityType: "",
			limit:      0,
			checkQuery: func(t *testing.T, query string, args []any) {
				q := strings.ToLower(query)

				require.Contains(t, q, "from sync_queue")
				require.Contains(t, q, "user_id")
				require.Contains(t, q, "next_retry")
				require.Contains(t, q, "attempts < max_attempts")
				require.Contains(t, q, "order by priority desc, created_at asc, id asc")
				assert.NotContains(t, q, "entity_type =")
				assert.NotContains(t, q, "limit")

				require.Len(t, args, 2)
				assert.Equal(t, int64(42), args[0])
				assert.Equal(t, now, args[1])
			},
		},
		{
			name:       "success: entity type filter and limit",
			entityType: "climb",
			limit:      25,
			checkQuery: func(t *testing.T, query string, args []any) {
				q := strings.ToLower(query)

				require.Contains(t, q, "entity_type")
				require.Contains(t, q, "limit 25")
				require.Contains(t, query, "$3")

				require.Len(t, args, 3)
				assert.Equal(t, "climb", args[2])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := buildDequeueQuery(42, tt.entityType, now, tt.limit)
			require.NoError(t, err)
			tt.checkQuery(t, query, args)
		})
	}
}

func Test_buildDequeueQuery_SelectsAllQueueColumns(t *testing.T) {
	query, _, err := buildDequeueQuery(1, "", time.Now(), 10)
	require.NoError(t, err)

	q := strings.ToLower(query)
	for _, col := range queueColumns {
		require.Contains(t, q, col, "query should select column %q", col)
	}
}

func Test_buildBatchSiblingsQuery(t *testing.T) {
	t.Run("success: excludes already fetched ids", func(t *testing.T) {
		query, args, err := buildBatchSiblingsQuery(
			42, "",
			[]string{"batch-1", "batch-2"},
			[]string{"id-1", "id-2", "id-3"},
		)
		require.NoError(t, err)

		q := strings.ToLower(query)
		require.Contains(t, q, "user_id = $1")
		require.Contains(t, q, "batch_id in ($2,$3)")
		require.Contains(t, q, "attempts < max_attempts")
		require.Contains(t, q, "id not in ($4,$5,$6)")
		require.Contains(t, q, "order by priority desc, created_at asc, id asc")
		assert.NotContains(t, q, "entity_type =")

		require.Len(t, args, 6)
		assert.Equal(t, int64(42), args[0])
		assert.Equal(t, "batch-1", args[1])
		assert.Equal(t, "id-3", args[5])
	})

	t.Run("success: entity type filter, nothing to exclude", func(t *testing.T) {
		query, args, err := buildBatchSiblingsQuery(42, "climb", []string{"batch-1"}, nil)
		require.NoError(t, err)

		q := strings.ToLower(query)
		require.Contains(t, q, "entity_type = $3")
		assert.NotContains(t, q, "not in")

		require.Len(t, args, 3)
		assert.Equal(t, "climb", args[2])
	})
}

func Test_buildRemoveItemsQuery(t *testing.T) {
	query, args, err := buildRemoveItemsQuery([]string{"id-1", "id-2"})
	require.NoError(t, err)

	q := strings.ToLower(query)
	require.Contains(t, q, "delete from sync_queue")
	require.Contains(t, q, "id in ($1,$2)")
	require.Len(t, args, 2)
}

func Test_buildDeleteDeadLettersQuery(t *testing.T) {
	query, args, err := buildDeleteDeadLettersQuery([]string{"id-1"})
	require.NoError(t, err)

	q := strings.ToLower(query)
	require.Contains(t, q, "delete from sync_dead_letters")
	require.Contains(t, q, "id in ($1)")
	require.Len(t, args, 1)
}

func Test_buildMarkCleanQuery(t *testing.T) {
	query, args, err := buildMarkCleanQuery(42, "climb", []string{"climb-1", "climb-2"})
	require.NoError(t, err)

	q := strings.ToLower(query)
	require.Contains(t, q, "update local_records")
	require.Contains(t, q, "set dirty")
	require.Contains(t, q, "user_id")
	require.Contains(t, q, "entity_type")
	require.Contains(t, q, "entity_id in")

	require.Len(t, args, 5)
	assert.Equal(t, 0, args[0])
	assert.Equal(t, int64(42), args[1])
	assert.Equal(t, "climb", args[2])
	assert.Equal(t, "climb-2", args[4])
}
