package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrQueueItemNotFound is returned when a queue operation targets an item
	// (identified by its id) that is not present in the sync_queue table.
	ErrQueueItemNotFound = errors.New("sync queue item was not found")

	// ErrConflictNotFound is returned when a lookup or resolution targets a
	// conflict record that does not exist in the conflict inbox.
	ErrConflictNotFound = errors.New("conflict record was not found")

	// ErrDeadLetterNotFound is returned when a requeue or lookup targets a
	// dead-letter item that does not exist in the database.
	ErrDeadLetterNotFound = errors.New("dead-letter item was not found")

	// ErrRecordNotFound is returned when a query targets a local record
	// (identified by user_id, entity_type and entity_id) that does not exist
	// in the local document store.
	ErrRecordNotFound = errors.New("local record was not found")

	// ErrSnapshotConflict is returned when an optimistic-concurrency check
	// fails on the server: the stored snapshot carries a later updated_at
	// than the uploaded one, meaning another device has modified the entity
	// since the client last synchronized.
	ErrSnapshotConflict = errors.New("snapshot version conflict occurred")

	// ErrStorageUnavailable wraps database errors the classifier marks as
	// retryable (connection loss, deadlock rollback). Handlers map it to a
	// 503 so clients treat the failure as transient.
	ErrStorageUnavailable = errors.New("storage temporarily unavailable")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrPreparingStatement is returned when a SQL statement cannot be
	// prepared (e.g. syntax error or connection issue).
	ErrPreparingStatement = errors.New("failed to prepare statement")

	// ErrExecutingStatement is returned when executing a prepared DML
	// statement (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan rows")
)
