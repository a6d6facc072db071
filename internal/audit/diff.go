package audit

import (
	"fmt"
	"strings"

	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
)

const (
	diffFromLabel = "claude_context.json.old"
	diffToLabel   = "claude_context.json.new"
)

// UnifiedDiff computes a unified diff between two serialized documents.
// Returns "" when the documents are identical.
func UnifiedDiff(old, new string) string {
	edits := myers.ComputeEdits(span.URIFromPath(diffFromLabel), old, new)
	if len(edits) == 0 {
		return ""
	}
	return fmt.Sprint(gotextdiff.ToUnified(diffFromLabel, diffToLabel, old, edits))
}

// CountChanges tallies added and removed lines in a unified diff body,
// excluding the file header lines.
func CountChanges(diff string) (additions, deletions int) {
	for _, line := range strings.Split(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		case strings.HasPrefix(line, "+"):
			additions++
		case strings.HasPrefix(line, "-"):
			deletions++
		}
	}
	return additions, deletions
}
