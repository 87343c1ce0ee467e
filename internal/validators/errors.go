package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidUserID    = errors.New("invalid user ID")
	ErrEmptyItems       = errors.New("items list cannot be empty")
	ErrMissingItemID    = errors.New("item id is required")
	ErrMissingEntityID  = errors.New("entity id is required")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrMissingPayload   = errors.New("payload is required for non-delete operations")
	ErrMissingBatchID   = errors.New("batch id is required for atomic batches")
)
