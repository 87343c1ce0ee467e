package validators

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ascentlog/crag-sync/models"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func validItem() models.UploadItem {
	return models.UploadItem{
		ItemID:    "item-1",
		EntityID:  "climb-1",
		Operation: models.OperationUpsert,
		Payload:   json.RawMessage(`{"grade":"7a"}`),
	}
}

func validBatchRequest() models.UploadBatchRequest {
	return models.UploadBatchRequest{
		UserID: 1,
		Items:  []models.UploadItem{validItem()},
	}
}

// ---------------------------------------------------------------------------
// TestNewBatchValidator
// ---------------------------------------------------------------------------

func TestNewBatchValidator(t *testing.T) {
	v := NewBatchValidator()
	require.NotNil(t, v)
}

// ---------------------------------------------------------------------------
// TestValidate_Dispatch
// ---------------------------------------------------------------------------

func TestValidate_Dispatch(t *testing.T) {
	v := NewBatchValidator()
	ctx := context.Background()

	t.Run("unsupported type", func(t *testing.T) {
		err := v.Validate(ctx, "a string")
		require.ErrorIs(t, err, ErrUnsupportedType)
	})

	t.Run("UploadBatchRequest value", func(t *testing.T) {
		r := validBatchRequest()
		require.NoError(t, v.Validate(ctx, r))
	})

	t.Run("UploadBatchRequest pointer", func(t *testing.T) {
		r := validBatchRequest()
		require.NoError(t, v.Validate(ctx, &r))
	})

	t.Run("UploadItem value", func(t *testing.T) {
		i := validItem()
		require.NoError(t, v.Validate(ctx, i))
	})

	t.Run("UploadItem pointer", func(t *testing.T) {
		i := validItem()
		require.NoError(t, v.Validate(ctx, &i))
	})

	t.Run("int64 as user id", func(t *testing.T) {
		require.NoError(t, v.Validate(ctx, int64(7)))
		require.ErrorIs(t, v.Validate(ctx, int64(0)), ErrInvalidUserID)
	})
}

// ---------------------------------------------------------------------------
// TestValidateBatchRequest
// ---------------------------------------------------------------------------

func TestValidateBatchRequest(t *testing.T) {
	v := NewBatchValidator()
	ctx := context.Background()

	t.Run("valid with defaults", func(t *testing.T) {
		r := validBatchRequest()
		require.NoError(t, v.Validate(ctx, r))
	})

	t.Run("zero user_id", func(t *testing.T) {
		r := validBatchRequest()
		r.UserID = 0
		require.ErrorIs(t, v.Validate(ctx, r, FieldUserID), ErrInvalidUserID)
	})

	t.Run("empty items", func(t *testing.T) {
		r := validBatchRequest()
		r.Items = nil
		require.ErrorIs(t, v.Validate(ctx, r, FieldItems), ErrEmptyItems)
	})

	t.Run("invalid nested item carries index", func(t *testing.T) {
		r := validBatchRequest()
		bad := validItem()
		bad.EntityID = ""
		r.Items = append(r.Items, bad)

		err := v.Validate(ctx, r, FieldItems)
		require.ErrorIs(t, err, ErrMissingEntityID)
		require.Contains(t, err.Error(), "item 1")
	})

	t.Run("atomic without batch id", func(t *testing.T) {
		r := validBatchRequest()
		r.Atomic = true
		require.ErrorIs(t, v.Validate(ctx, r, FieldBatchID), ErrMissingBatchID)
	})

	t.Run("atomic with batch id", func(t *testing.T) {
		r := validBatchRequest()
		r.Atomic = true
		r.BatchID = "batch-1"
		require.NoError(t, v.Validate(ctx, r))
	})

	t.Run("non-atomic needs no batch id", func(t *testing.T) {
		r := validBatchRequest()
		r.BatchID = ""
		require.NoError(t, v.Validate(ctx, r, FieldBatchID))
	})

	t.Run("unknown field", func(t *testing.T) {
		r := validBatchRequest()
		require.ErrorIs(t, v.Validate(ctx, r, "no-such-field"), ErrUnknownField)
	})
}

// ---------------------------------------------------------------------------
// TestValidateItem
// ---------------------------------------------------------------------------

func TestValidateItem(t *testing.T) {
	v := NewBatchValidator()
	ctx := context.Background()

	t.Run("valid with defaults", func(t *testing.T) {
		i := validItem()
		require.NoError(t, v.Validate(ctx, i))
	})

	t.Run("missing item id", func(t *testing.T) {
		i := validItem()
		i.ItemID = ""
		require.ErrorIs(t, v.Validate(ctx, i, FieldItemID), ErrMissingItemID)
	})

	t.Run("missing entity id", func(t *testing.T) {
		i := validItem()
		i.EntityID = ""
		require.ErrorIs(t, v.Validate(ctx, i, FieldEntityID), ErrMissingEntityID)
	})

	t.Run("invalid operation", func(t *testing.T) {
		i := validItem()
		i.Operation = "replicate"
		require.ErrorIs(t, v.Validate(ctx, i, FieldOperation), ErrInvalidOperation)
	})

	t.Run("delete without payload is fine", func(t *testing.T) {
		i := validItem()
		i.Operation = models.OperationDelete
		i.Payload = nil
		require.NoError(t, v.Validate(ctx, i))
	})

	t.Run("upsert without payload", func(t *testing.T) {
		i := validItem()
		i.Payload = nil
		require.ErrorIs(t, v.Validate(ctx, i, FieldPayload), ErrMissingPayload)
	})

	t.Run("field scoping skips other checks", func(t *testing.T) {
		i := validItem()
		i.ItemID = ""
		require.NoError(t, v.Validate(ctx, i, FieldEntityID, FieldOperation))
	})

	t.Run("unknown field", func(t *testing.T) {
		i := validItem()
		require.ErrorIs(t, v.Validate(ctx, i, "no-such-field"), ErrUnknownField)
	})
}
