// Package groovehash implements the stable JSON canonicalization and
// SHA-256 integrity hash used to detect any change to a groove profile.
// There is no third-party canonical-JSON library anywhere in the retrieval
// pack; the teacher's own exporter computes file checksums with
// crypto/sha256 directly (internal/exporter/verify.go), so this package
// follows the same standard-library approach for both canonicalization and
// hashing.
package groovehash

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// StableStringify renders v as a canonical JSON string: object keys sorted
// lexicographically at every depth, array order preserved, and numbers and
// strings encoded exactly as encoding/json would encode them. v is first
// round-tripped through encoding/json so that any concrete Go type
// (structs, maps, slices) is normalized to the same tree of
// map[string]any/[]any/float64/string/bool/nil that a value decoded from
// JSON would produce — this is what guarantees two structurally-equal
// values with differently ordered struct fields or map iteration order
// stringify identically.
func StableStringify(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("groovehash: marshal: %w", err)
	}
	return StableStringifyJSON(raw)
}

// StableStringifyJSON canonicalizes an already-encoded JSON document.
func StableStringifyJSON(raw []byte) (string, error) {
	var tree any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&tree); err != nil {
		return "", fmt.Errorf("groovehash: decode: %w", err)
	}
	var buf bytes.Buffer
	if err := writeCanonical(&buf, tree); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func writeCanonical(buf *bytes.Buffer, v any) error {
	switch t := v.(type) {
	case nil:
		buf.WriteString("null")
		return nil
	case bool, json.Number, string:
		return writeLeaf(buf, t)
	case []any:
		buf.WriteByte('[')
		for i, elem := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonical(buf, elem); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeLeaf(buf, k); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeCanonical(buf, t[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	default:
		return fmt.Errorf("groovehash: unsupported value of type %T", v)
	}
}

// writeLeaf encodes a primitive using encoding/json, which is the host
// serializer's own canonical number/string form — json.Number passes
// through byte-for-byte since it preserves the original decimal text.
func writeLeaf(buf *bytes.Buffer, v any) error {
	enc, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("groovehash: encode leaf: %w", err)
	}
	buf.Write(enc)
	return nil
}

// ComputeHash returns the 64-lowercase-hex SHA-256 digest of v's stable
// stringification.
func ComputeHash(v any) (string, error) {
	s, err := StableStringify(v)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:]), nil
}

// ComputeHashJSON is ComputeHash for an already-encoded JSON document.
func ComputeHashJSON(raw []byte) (string, error) {
	s, err := StableStringifyJSON(raw)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:]), nil
}

// HashBytes returns the 64-lowercase-hex SHA-256 digest of raw bytes,
// uncanonicalized. This is the primitive the export bundle's checksum
// manifest is built on: a profile's integrity hash (ComputeHash) identifies
// the profile's content regardless of how it was serialized, while a
// checksum manifest identifies the exact bytes written to disk — both ride
// the same SHA-256 + hex digest, so this package owns both.
func HashBytes(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// HashFile returns the hex SHA-256 digest of the file at path.
func HashFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return HashBytes(data), nil
}
