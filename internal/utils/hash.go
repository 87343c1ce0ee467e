package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"hash"
	"sync"
)

// hasherPool is a package-level pool of reusable SHA-256 hash instances.
var hasherPool = sync.Pool{
	New: func() any {
		return sha256.New()
	},
}

// CanonicalHash computes a hex-encoded SHA-256 digest over the canonical
// form of a JSON payload.
//
// Canonicalization rules:
//   - JSON objects are re-encoded with keys sorted lexicographically at
//     every nesting level, so field order in the source document does not
//     affect the digest
//   - the listed skipKeys are removed from the top-level object before
//     encoding; nested occurrences are kept
//   - payloads that are not JSON objects (arrays, scalars, invalid JSON)
//     are hashed as raw bytes
//
// Two payloads that differ only in field order or in the skipped keys
// therefore produce the same digest, regardless of which client produced
// the document.
//
// Parameters:
//
//	payload  - JSON document to be hashed
//	skipKeys - top-level object keys excluded from the digest
//
// Returns:
//
//	string - hex-encoded SHA-256 digest
//
// Example usage:
//
//	digest := utils.CanonicalHash(payload, "id", "updated_at")
func CanonicalHash(payload []byte, skipKeys ...string) string {
	data := canonicalBytes(payload, skipKeys)

	h := hasherPool.Get().(hash.Hash)
	h.Reset()

	h.Write(data)
	sum := h.Sum(nil)

	h.Reset()
	hasherPool.Put(h)

	return hex.EncodeToString(sum)
}

// canonicalBytes re-encodes a JSON object with sorted keys and the given
// top-level keys removed. encoding/json sorts map keys on output, which
// yields the canonical form. Non-object payloads are returned unchanged.
func canonicalBytes(payload []byte, skipKeys []string) []byte {
	var doc map[string]any
	if err := json.Unmarshal(payload, &doc); err != nil {
		return payload
	}

	for _, key := range skipKeys {
		delete(doc, key)
	}

	canonical, err := json.Marshal(doc)
	if err != nil {
		return payload
	}

	return canonical
}
