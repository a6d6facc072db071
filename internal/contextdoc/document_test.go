package contextdoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonical(t *testing.T) {
	t.Run("sorts keys and indents", func(t *testing.T) {
		out, err := Canonical(map[string]any{"b": 1, "a": 2})

		require.NoError(t, err)
		assert.Equal(t, "{\n  \"a\": 2,\n  \"b\": 1\n}\n", out)
	})

	t.Run("does not escape html characters", func(t *testing.T) {
		out, err := Canonical(map[string]any{"cmd": "a < b && c > d"})

		require.NoError(t, err)
		assert.Contains(t, out, "a < b && c > d")
	})
}

func TestCanonicalizeRaw(t *testing.T) {
	t.Run("identical for differently formatted input", func(t *testing.T) {
		a, err := CanonicalizeRaw([]byte(`{"x":1,  "y": {"b":2,"a":3}}`))
		require.NoError(t, err)

		b, err := CanonicalizeRaw([]byte("{\n\"y\": {\"a\": 3, \"b\": 2},\n\"x\": 1\n}"))
		require.NoError(t, err)

		assert.Equal(t, a, b)
	})

	t.Run("preserves large numbers verbatim", func(t *testing.T) {
		out, err := CanonicalizeRaw([]byte(`{"bytes": 131751860224}`))

		require.NoError(t, err)
		assert.Contains(t, out, "131751860224")
	})

	t.Run("rejects invalid JSON", func(t *testing.T) {
		_, err := CanonicalizeRaw([]byte("{not json"))
		assert.Error(t, err)
	})

	t.Run("rejects trailing data after the document", func(t *testing.T) {
		_, err := CanonicalizeRaw([]byte(`{"a": 1} garbage`))
		assert.Error(t, err)
	})
}

func TestDocumentSchemaVersion(t *testing.T) {
	assert.Equal(t, "1.0.0", DocumentSchemaVersion(map[string]any{"schema_version": "1.0.0"}))
	assert.Empty(t, DocumentSchemaVersion(map[string]any{}))
	assert.Empty(t, DocumentSchemaVersion(map[string]any{"schema_version": 2}))
}
