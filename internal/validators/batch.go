package validators

import (
	"context"
	"fmt"

	"github.com/ascentlog/crag-sync/models"
)

// Field name constants used to specify which fields should be validated.
// These constants are passed to Validate or internal validation methods
// to restrict validation to a subset of fields (field-level scoping).
const (
	// FieldUserID targets the owner identifier of a batch or request.
	FieldUserID = "user_id"

	// FieldItems targets the list of mutations in an upload batch.
	FieldItems = "items"

	// FieldItemID targets the originating queue item identifier of one mutation.
	FieldItemID = "item_id"

	// FieldEntityID targets the entity identifier of one mutation.
	FieldEntityID = "entity_id"

	// FieldOperation targets the mutation kind (create, update, delete, upsert).
	FieldOperation = "operation"

	// FieldPayload targets the serialized snapshot carried by a mutation.
	FieldPayload = "payload"

	// FieldBatchID enforces that atomic batches carry a grouping key.
	FieldBatchID = "batch_id"
)

// BatchValidator implements the Validator interface for the sync exchange
// models: UploadBatchRequest, UploadItem, and bare user identifiers.
//
// It supports both value and pointer receivers for every model type
// and allows optional field-level scoping via variadic field name arguments.
type BatchValidator struct {
}

// NewBatchValidator constructs a new BatchValidator
// and returns it as the Validator interface.
func NewBatchValidator() Validator {
	return &BatchValidator{}
}

// Validate dispatches validation to the appropriate type-specific method
// based on the dynamic type of obj. Both value and pointer forms of each
// supported model are accepted; an int64 is validated as a user identifier.
//
// Returns ErrUnsupportedType if obj does not match any known model.
// Optional fields restrict validation to the named subset; when omitted,
// a sensible default set of fields is validated.
func (v *BatchValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.UploadBatchRequest:
		return v.validateBatchRequest(ctx, value, fields...)
	case *models.UploadBatchRequest:
		return v.validateBatchRequest(ctx, *value, fields...)

	case models.UploadItem:
		return v.validateItem(ctx, value, fields...)
	case *models.UploadItem:
		return v.validateItem(ctx, *value, fields...)

	case int64:
		return v.validateUserID(value)

	default:
		return ErrUnsupportedType
	}
}

func (v *BatchValidator) validateBatchRequest(ctx context.Context, req models.UploadBatchRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldUserID, FieldItems, FieldBatchID}
	}

	for _, f := range fields {
		switch f {
		case FieldUserID:
			if req.UserID <= 0 {
				return ErrInvalidUserID
			}
		case FieldItems:
			if len(req.Items) == 0 {
				return ErrEmptyItems
			}
			for i, item := range req.Items {
				if err := v.validateItem(ctx, item); err != nil {
					return fmt.Errorf("item %d: %w", i, err)
				}
			}
		case FieldBatchID:
			if req.Atomic && req.BatchID == "" {
				return ErrMissingBatchID
			}
		default:
			return fmt.Errorf("%w: %s", ErrUnknownField, f)
		}
	}

	return nil
}

func (v *BatchValidator) validateItem(ctx context.Context, item models.UploadItem, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldItemID, FieldEntityID, FieldOperation, FieldPayload}
	}

	for _, f := range fields {
		switch f {
		case FieldItemID:
			if item.ItemID == "" {
				return ErrMissingItemID
			}
		case FieldEntityID:
			if item.EntityID == "" {
				return ErrMissingEntityID
			}
		case FieldOperation:
			if !item.Operation.Valid() {
				return ErrInvalidOperation
			}
		case FieldPayload:
			if item.Operation != models.OperationDelete && len(item.Payload) == 0 {
				return ErrMissingPayload
			}
		default:
			return fmt.Errorf("%w: %s", ErrUnknownField, f)
		}
	}

	return nil
}

func (v *BatchValidator) validateUserID(userID int64) error {
	if userID <= 0 {
		return ErrInvalidUserID
	}
	return nil
}
