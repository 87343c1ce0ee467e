package repository

import (
	"encoding/json"
	"fmt"
)

// JSONCodec is the default [Codec], encoding entities with encoding/json.
type JSONCodec[T any] struct{}

// Serialize encodes the entity as JSON.
func (JSONCodec[T]) Serialize(entity T) ([]byte, error) {
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialization, err)
	}

	return data, nil
}

// Deserialize decodes JSON payload bytes into the entity type.
func (JSONCodec[T]) Deserialize(data []byte) (T, error) {
	var entity T
	if err := json.Unmarshal(data, &entity); err != nil {
		return entity, fmt.Errorf("%w: %w", ErrSerialization, err)
	}

	return entity, nil
}

// RawJSONCodec passes pre-serialized JSON documents through unchanged. It
// backs [NewDocumentAdapter], where the application already works with raw
// JSON and re-encoding would only reorder fields.
type RawJSONCodec struct{}

// Serialize validates the document and returns it as-is.
func (RawJSONCodec) Serialize(entity json.RawMessage) ([]byte, error) {
	if !json.Valid(entity) {
		return nil, fmt.Errorf("%w: document is not valid JSON", ErrSerialization)
	}

	return entity, nil
}

// Deserialize returns a copy of the payload bytes so the caller cannot alias
// storage-owned buffers.
func (RawJSONCodec) Deserialize(data []byte) (json.RawMessage, error) {
	if !json.Valid(data) {
		return nil, fmt.Errorf("%w: document is not valid JSON", ErrSerialization)
	}

	return json.RawMessage(append([]byte(nil), data...)), nil
}
