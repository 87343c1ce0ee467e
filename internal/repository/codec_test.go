package repository

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONCodec_Roundtrip(t *testing.T) {
	codec := JSONCodec[climb]{}

	entity := climb{ID: "climb-1", Route: "Silence", Grade: "9c", Attempts: 40}

	data, err := codec.Serialize(entity)
	require.NoError(t, err)

	got, err := codec.Deserialize(data)
	require.NoError(t, err)
	assert.Equal(t, entity, got)
}

func TestJSONCodec_DeserializeInvalid(t *testing.T) {
	codec := JSONCodec[climb]{}

	_, err := codec.Deserialize([]byte(`{"attempts":"many"}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSerialization)
}

func TestRawJSONCodec_RejectsInvalidDocuments(t *testing.T) {
	codec := RawJSONCodec{}

	_, err := codec.Serialize(json.RawMessage(`{"unterminated":`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSerialization)

	_, err = codec.Deserialize([]byte(`not json`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSerialization)
}

func TestRawJSONCodec_DeserializeCopies(t *testing.T) {
	codec := RawJSONCodec{}

	src := []byte(`{"crag":"Siurana"}`)
	doc, err := codec.Deserialize(src)
	require.NoError(t, err)

	// Mutating the source must not leak into the returned document.
	src[2] = 'X'
	assert.JSONEq(t, `{"crag":"Siurana"}`, string(doc))
}
