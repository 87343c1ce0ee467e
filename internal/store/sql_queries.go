package store

import (
	"time"

	sq "github.com/Masterminds/squirrel"
)

const (
	// applySnapshot upserts one entity snapshot with an optimistic version
	// check: a stored row with a strictly newer updated_at wins and the
	// statement reports zero affected rows, which the repository turns into
	// a conflict outcome. Equal timestamps apply, keeping retried uploads
	// idempotent.
	applySnapshot = `
		INSERT INTO entity_snapshots (
			user_id,
			entity_type,
			entity_id,
			payload,
			operation,
			deleted,
			updated_at,
			server_time
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, entity_type, entity_id) DO UPDATE SET
			payload     = EXCLUDED.payload,
			operation   = EXCLUDED.operation,
			deleted     = EXCLUDED.deleted,
			updated_at  = EXCLUDED.updated_at,
			server_time = EXCLUDED.server_time
		WHERE entity_snapshots.updated_at <= EXCLUDED.updated_at;`

	selectServerTime = `SELECT NOW();`
)

// snapshotColumns is the canonical column order shared by every
// entity_snapshots SELECT, matching the scan order in ChangesSince.
var snapshotColumns = []string{
	"user_id",
	"entity_type",
	"entity_id",
	"payload",
	"updated_at",
	"deleted",
}

// buildChangesSinceQuery dynamically builds the download SELECT. The since
// filter is added only for a non-zero cursor (first syncs download
// everything), and a non-positive limit means no LIMIT clause.
func buildChangesSinceQuery(userID int64, entityType string, since time.Time, limit int) (string, []any, error) {
	builder := sq.Select(snapshotColumns...).
		From("entity_snapshots").
		Where(sq.Eq{"user_id": userID}).
		Where(sq.Eq{"entity_type": entityType}).
		OrderBy("server_time ASC", "entity_id ASC").
		PlaceholderFormat(sq.Dollar)

	if !since.IsZero() {
		builder = builder.Where(sq.Gt{"server_time": since})
	}

	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}

	return builder.ToSql()
}
