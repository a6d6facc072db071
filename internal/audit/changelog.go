package audit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	separatorWidth     = 60
	changelogTimestamp = "2006-01-02 15:04:05"
)

var changelogHeader = strings.Join([]string{
	"# ctxkeeper - Context Changelog",
	"# This file tracks all changes to the context document",
	"# Use this to recover deleted information or review history",
	"",
	"",
}, "\n")

// Changelog is an append-only log of timestamped unified-diff blocks.
// Entries are never edited or removed by the tool.
type Changelog struct {
	path string
}

// NewChangelog creates a changelog writer for the given path.
func NewChangelog(path string) *Changelog {
	return &Changelog{path: path}
}

// Path returns the changelog file location.
func (c *Changelog) Path() string {
	return c.path
}

// Exists reports whether the changelog file is already present on disk.
func (c *Changelog) Exists() bool {
	_, err := os.Stat(c.path)
	return err == nil
}

func separator() string {
	return strings.Repeat("=", separatorWidth)
}

// WriteBaseline initializes the changelog with a header and the full
// baseline serialization of the initial context document.
func (c *Changelog) WriteBaseline(baseline string, now time.Time) error {
	content := fmt.Sprintf("%s%s\n# %s - BASELINE\n%s\n%s\n",
		changelogHeader,
		separator(),
		now.Format(changelogTimestamp),
		separator(),
		baseline,
	)

	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("failed to create changelog directory: %w", err)
	}
	if err := os.WriteFile(c.path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to initialize changelog: %w", err)
	}
	return nil
}

// Append adds one timestamped diff block to the end of the changelog.
func (c *Changelog) Append(diff string, now time.Time) error {
	entry := fmt.Sprintf("\n%s\n# %s\n%s\n%s\n",
		separator(),
		now.Format(changelogTimestamp),
		separator(),
		diff,
	)

	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("failed to create changelog directory: %w", err)
	}

	f, err := os.OpenFile(c.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open changelog: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(entry); err != nil {
		return fmt.Errorf("failed to append to changelog: %w", err)
	}
	return nil
}
