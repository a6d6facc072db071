package audit

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/ctxkeeper/ctxkeeper/internal/contextdoc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestUpdater(t *testing.T) (*Updater, string, string) {
	t.Helper()
	dir := t.TempDir()
	contextPath := filepath.Join(dir, "claude_context.json")
	changelogPath := filepath.Join(dir, "context_changelog.diff")

	updater := NewUpdater(contextPath, changelogPath, zap.NewNop()).
		WithClock(func() time.Time {
			return time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
		})
	return updater, contextPath, changelogPath
}

func TestUpdaterApply(t *testing.T) {
	t.Run("first update creates the file and logs a diff against empty", func(t *testing.T) {
		updater, contextPath, changelogPath := newTestUpdater(t)

		result, err := updater.Apply([]byte(`{"hardware": {"cpu": "EPYC 7453"}}`))

		require.NoError(t, err)
		assert.True(t, result.Changed)

		content, err := os.ReadFile(contextPath)
		require.NoError(t, err)
		want, err := contextdoc.CanonicalizeRaw([]byte(`{"hardware": {"cpu": "EPYC 7453"}}`))
		require.NoError(t, err)
		assert.Equal(t, want, string(content))

		changelog, err := os.ReadFile(changelogPath)
		require.NoError(t, err)
		assert.Contains(t, string(changelog), "# 2026-08-28 12:00:00")
		assert.Contains(t, string(changelog), "-{}")
	})

	t.Run("context file equals the submitted document exactly", func(t *testing.T) {
		updater, contextPath, _ := newTestUpdater(t)

		d1 := []byte(`{"hardware": {"cpu": "EPYC 7453"}, "servers": {}}`)
		d2 := []byte(`{"hardware": {"cpu": "EPYC 7453"}, "servers": {"web": {"ip": "10.0.0.5"}}}`)

		_, err := updater.Apply(d1)
		require.NoError(t, err)
		_, err = updater.Apply(d2)
		require.NoError(t, err)

		content, err := os.ReadFile(contextPath)
		require.NoError(t, err)
		want, err := contextdoc.CanonicalizeRaw(d2)
		require.NoError(t, err)
		assert.Equal(t, want, string(content))
	})

	t.Run("changelog gains one block with the added lines", func(t *testing.T) {
		updater, _, changelogPath := newTestUpdater(t)

		_, err := updater.Apply([]byte(`{"hardware": {"cpu": "EPYC 7453"}, "servers": {}}`))
		require.NoError(t, err)

		before, err := os.ReadFile(changelogPath)
		require.NoError(t, err)

		_, err = updater.Apply([]byte(`{"hardware": {"cpu": "EPYC 7453"}, "servers": {"web": {"ip": "10.0.0.5"}}}`))
		require.NoError(t, err)

		after, err := os.ReadFile(changelogPath)
		require.NoError(t, err)

		entry := strings.TrimPrefix(string(after), string(before))
		assert.Equal(t, 1, strings.Count(entry, "# 2026-08-28 12:00:00"))
		assert.Contains(t, entry, `+      "ip": "10.0.0.5"`)
	})

	t.Run("malformed input mutates nothing", func(t *testing.T) {
		updater, contextPath, changelogPath := newTestUpdater(t)

		_, err := updater.Apply([]byte(`{"a": 1}`))
		require.NoError(t, err)

		contextBefore, err := os.ReadFile(contextPath)
		require.NoError(t, err)
		changelogBefore, err := os.ReadFile(changelogPath)
		require.NoError(t, err)

		_, err = updater.Apply([]byte(`{"broken":`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid JSON")

		contextAfter, err := os.ReadFile(contextPath)
		require.NoError(t, err)
		changelogAfter, err := os.ReadFile(changelogPath)
		require.NoError(t, err)

		assert.Equal(t, contextBefore, contextAfter)
		assert.Equal(t, changelogBefore, changelogAfter)
	})

	t.Run("trailing data after the document mutates nothing", func(t *testing.T) {
		updater, contextPath, changelogPath := newTestUpdater(t)

		_, err := updater.Apply([]byte(`{"a": 1}`))
		require.NoError(t, err)

		contextBefore, err := os.ReadFile(contextPath)
		require.NoError(t, err)
		changelogBefore, err := os.ReadFile(changelogPath)
		require.NoError(t, err)

		_, err = updater.Apply([]byte(`{"a": 2} this is not JSON`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid JSON")

		contextAfter, err := os.ReadFile(contextPath)
		require.NoError(t, err)
		changelogAfter, err := os.ReadFile(changelogPath)
		require.NoError(t, err)

		assert.Equal(t, contextBefore, contextAfter)
		assert.Equal(t, changelogBefore, changelogAfter)
	})

	t.Run("appended diff patches the old document into the new one", func(t *testing.T) {
		updater, contextPath, changelogPath := newTestUpdater(t)

		_, err := updater.Apply([]byte(`{"hardware": {"cpu": "EPYC 7453"}, "servers": {}}`))
		require.NoError(t, err)

		oldContent, err := os.ReadFile(contextPath)
		require.NoError(t, err)
		changelogBefore, err := os.ReadFile(changelogPath)
		require.NoError(t, err)

		_, err = updater.Apply([]byte(`{"hardware": {"cpu": "EPYC 7453"}, "servers": {"web": {"ip": "10.0.0.5"}}, "pending_tasks": ["migrate db"]}`))
		require.NoError(t, err)

		newContent, err := os.ReadFile(contextPath)
		require.NoError(t, err)
		changelogAfter, err := os.ReadFile(changelogPath)
		require.NoError(t, err)

		entry := strings.TrimPrefix(string(changelogAfter), string(changelogBefore))
		diff := extractDiffBody(t, entry)

		assert.Equal(t, string(newContent), applyUnifiedDiff(t, string(oldContent), diff))
	})

	t.Run("empty input is rejected", func(t *testing.T) {
		updater, _, _ := newTestUpdater(t)

		_, err := updater.Apply([]byte("  \n"))
		assert.Error(t, err)
	})

	t.Run("identical document touches neither file", func(t *testing.T) {
		updater, contextPath, changelogPath := newTestUpdater(t)

		_, err := updater.Apply([]byte(`{"a": 1}`))
		require.NoError(t, err)

		changelogBefore, err := os.ReadFile(changelogPath)
		require.NoError(t, err)
		contextBefore, err := os.ReadFile(contextPath)
		require.NoError(t, err)

		// Same document, different formatting: canonicalization makes it a no-op.
		result, err := updater.Apply([]byte("{ \"a\":   1 }"))
		require.NoError(t, err)
		assert.False(t, result.Changed)

		changelogAfter, err := os.ReadFile(changelogPath)
		require.NoError(t, err)
		contextAfter, err := os.ReadFile(contextPath)
		require.NoError(t, err)

		assert.Equal(t, changelogBefore, changelogAfter)
		assert.Equal(t, contextBefore, contextAfter)
	})

	t.Run("invalid existing file is diffed against empty baseline", func(t *testing.T) {
		updater, contextPath, _ := newTestUpdater(t)
		require.NoError(t, os.WriteFile(contextPath, []byte("not json"), 0644))

		result, err := updater.Apply([]byte(`{"a": 1}`))

		require.NoError(t, err)
		assert.True(t, result.Changed)

		content, err := os.ReadFile(contextPath)
		require.NoError(t, err)
		assert.JSONEq(t, `{"a": 1}`, string(content))
	})

	t.Run("rejects replacement with a different schema major", func(t *testing.T) {
		updater, contextPath, changelogPath := newTestUpdater(t)

		_, err := updater.Apply([]byte(`{"schema_version": "1.0.0", "a": 1}`))
		require.NoError(t, err)
		contextBefore, err := os.ReadFile(contextPath)
		require.NoError(t, err)
		changelogBefore, err := os.ReadFile(changelogPath)
		require.NoError(t, err)

		_, err = updater.Apply([]byte(`{"schema_version": "2.0.0", "a": 2}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "incompatible schema_version")

		contextAfter, err := os.ReadFile(contextPath)
		require.NoError(t, err)
		changelogAfter, err := os.ReadFile(changelogPath)
		require.NoError(t, err)
		assert.Equal(t, contextBefore, contextAfter)
		assert.Equal(t, changelogBefore, changelogAfter)
	})

	t.Run("minor schema bumps are accepted", func(t *testing.T) {
		updater, _, _ := newTestUpdater(t)

		_, err := updater.Apply([]byte(`{"schema_version": "1.0.0", "a": 1}`))
		require.NoError(t, err)

		result, err := updater.Apply([]byte(`{"schema_version": "1.1.0", "a": 2}`))
		require.NoError(t, err)
		assert.True(t, result.Changed)
	})

	t.Run("counts additions and deletions", func(t *testing.T) {
		updater, _, _ := newTestUpdater(t)

		_, err := updater.Apply([]byte(`{"a": 1, "b": 2}`))
		require.NoError(t, err)

		result, err := updater.Apply([]byte(`{"a": 1, "c": 3}`))
		require.NoError(t, err)

		assert.True(t, result.Changed)
		assert.Positive(t, result.Additions)
		assert.Positive(t, result.Deletions)
	})
}

// extractDiffBody returns the unified diff from a changelog entry, skipping
// the separator and timestamp header.
func extractDiffBody(t *testing.T, entry string) string {
	t.Helper()

	marker := strings.Repeat("=", 60) + "\n"
	i := strings.LastIndex(entry, marker)
	require.GreaterOrEqual(t, i, 0)
	return strings.TrimSuffix(entry[i+len(marker):], "\n")
}

// applyUnifiedDiff patches original with a unified diff, line by line.
func applyUnifiedDiff(t *testing.T, original, diff string) string {
	t.Helper()

	oldLines := strings.SplitAfter(original, "\n")
	if oldLines[len(oldLines)-1] == "" {
		oldLines = oldLines[:len(oldLines)-1]
	}

	var out strings.Builder
	pos := 0
	for _, line := range strings.Split(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "---"), strings.HasPrefix(line, "+++"):
		case strings.HasPrefix(line, "@@"):
			start := hunkOldStart(t, line)
			for pos < start-1 {
				out.WriteString(oldLines[pos])
				pos++
			}
		case strings.HasPrefix(line, "+"):
			out.WriteString(line[1:] + "\n")
		case strings.HasPrefix(line, "-"):
			pos++
		case strings.HasPrefix(line, " "):
			out.WriteString(oldLines[pos])
			pos++
		}
	}
	for pos < len(oldLines) {
		out.WriteString(oldLines[pos])
		pos++
	}
	return out.String()
}

func hunkOldStart(t *testing.T, header string) int {
	t.Helper()

	fields := strings.Fields(header)
	require.GreaterOrEqual(t, len(fields), 3)
	spec, _, _ := strings.Cut(strings.TrimPrefix(fields[1], "-"), ",")
	start, err := strconv.Atoi(spec)
	require.NoError(t, err)
	return start
}

func TestChangelogBaseline(t *testing.T) {
	dir := t.TempDir()
	changelog := NewChangelog(filepath.Join(dir, "log.diff"))

	require.False(t, changelog.Exists())

	now := time.Date(2026, 8, 28, 9, 30, 0, 0, time.UTC)
	require.NoError(t, changelog.WriteBaseline("{\n  \"a\": 1\n}\n", now))

	assert.True(t, changelog.Exists())

	content, err := os.ReadFile(changelog.Path())
	require.NoError(t, err)
	assert.Contains(t, string(content), "# 2026-08-28 09:30:00 - BASELINE")
	assert.Contains(t, string(content), strings.Repeat("=", 60))
	assert.Contains(t, string(content), "\"a\": 1")
}
