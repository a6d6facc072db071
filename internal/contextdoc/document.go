// Package contextdoc builds and serializes the context document consumed by
// the external assistant at session start.
package contextdoc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// SchemaVersion identifies the context document layout produced by this
// build. The updater refuses replacement documents from a different major.
const SchemaVersion = "1.0.0"

// Canonical serializes a document deterministically: sorted object keys
// (Go map marshaling), two-space indent, no HTML escaping, and a trailing
// newline. The changelog diffs and the on-disk file both use this form so
// that diffs stay stable across invocations.
func Canonical(doc any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return "", fmt.Errorf("failed to serialize document: %w", err)
	}
	return buf.String(), nil
}

// CanonicalizeRaw parses raw JSON and re-serializes it canonically.
// Numbers pass through verbatim rather than via float64.
func CanonicalizeRaw(raw []byte) (string, error) {
	var doc any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return "", fmt.Errorf("invalid JSON: %w", err)
	}
	if err := dec.Decode(new(any)); err != io.EOF {
		return "", fmt.Errorf("invalid JSON: unexpected data after document")
	}
	return Canonical(doc)
}

// DocumentSchemaVersion extracts the schema_version field from a parsed
// document, returning "" when absent or not a string.
func DocumentSchemaVersion(doc map[string]any) string {
	v, _ := doc["schema_version"].(string)
	return v
}
