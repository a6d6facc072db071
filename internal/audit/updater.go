// Package audit applies full-document replacements to the context file,
// recording every change as a unified diff in an append-only changelog.
package audit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/ctxkeeper/ctxkeeper/internal/contextdoc"
	"github.com/gofrs/flock"
	"go.uber.org/zap"
)

// Updater performs the read-diff-append-replace cycle for the context
// document. Concurrent invocations are serialized with an advisory file
// lock; within the lock the context file is replaced atomically.
type Updater struct {
	contextPath string
	changelog   *Changelog
	logger      *zap.Logger
	now         func() time.Time
}

// UpdateResult summarizes a completed update.
type UpdateResult struct {
	Changed   bool
	Additions int
	Deletions int
}

// NewUpdater creates an Updater for the given context and changelog paths.
func NewUpdater(contextPath string, changelogPath string, logger *zap.Logger) *Updater {
	return &Updater{
		contextPath: contextPath,
		changelog:   NewChangelog(changelogPath),
		logger:      logger,
		now:         time.Now,
	}
}

// WithClock overrides the updater's clock. Used in tests.
func (u *Updater) WithClock(now func() time.Time) *Updater {
	u.now = now
	return u
}

// Apply validates a full replacement document, appends the diff against the
// current on-disk version to the changelog, and atomically replaces the
// context file. Nothing is mutated when validation fails; identical
// documents leave both files untouched.
func (u *Updater) Apply(newRaw []byte) (*UpdateResult, error) {
	if len(bytes.TrimSpace(newRaw)) == 0 {
		return nil, fmt.Errorf("no content provided")
	}

	newDoc, err := parseDocument(newRaw)
	if err != nil {
		return nil, fmt.Errorf("invalid JSON in new content: %w", err)
	}

	newCanonical, err := contextdoc.Canonical(newDoc)
	if err != nil {
		return nil, err
	}

	// Serialize racing update invocations. The lock lives next to the
	// context file so updates against different paths do not contend.
	fileLock := flock.New(u.contextPath + ".lock")
	if err := fileLock.Lock(); err != nil {
		return nil, fmt.Errorf("failed to acquire context lock: %w", err)
	}
	defer fileLock.Unlock()

	oldDoc, oldCanonical, err := u.readCurrent()
	if err != nil {
		return nil, err
	}

	if err := checkSchemaCompatibility(oldDoc, newDoc); err != nil {
		return nil, err
	}

	diff := UnifiedDiff(oldCanonical, newCanonical)
	if diff == "" {
		u.logger.Info("no changes detected", zap.String("context", u.contextPath))
		return &UpdateResult{Changed: false}, nil
	}

	if err := u.changelog.Append(diff, u.now()); err != nil {
		return nil, err
	}

	if err := writeFileAtomic(u.contextPath, []byte(newCanonical)); err != nil {
		return nil, fmt.Errorf("failed to write context file: %w", err)
	}

	additions, deletions := CountChanges(diff)
	u.logger.Info("context updated",
		zap.String("context", u.contextPath),
		zap.Int("additions", additions),
		zap.Int("deletions", deletions),
	)

	return &UpdateResult{Changed: true, Additions: additions, Deletions: deletions}, nil
}

// readCurrent loads the on-disk document. A missing file is treated as an
// empty baseline; an unparseable file is overwritten but still diffed
// against an empty baseline so the changelog records the transition.
func (u *Updater) readCurrent() (map[string]any, string, error) {
	content, err := os.ReadFile(u.contextPath)
	if os.IsNotExist(err) {
		return map[string]any{}, "{}\n", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to read context file: %w", err)
	}

	doc, err := parseDocument(content)
	if err != nil {
		u.logger.Warn("current context file is invalid JSON, will be overwritten",
			zap.String("context", u.contextPath))
		return map[string]any{}, "{}\n", nil
	}

	canonical, err := contextdoc.Canonical(doc)
	if err != nil {
		return nil, "", err
	}
	return doc, canonical, nil
}

// checkSchemaCompatibility rejects replacements whose schema_version major
// differs from the current document's. Documents without a version on
// either side pass through.
func checkSchemaCompatibility(oldDoc, newDoc map[string]any) error {
	oldRaw := contextdoc.DocumentSchemaVersion(oldDoc)
	newRaw := contextdoc.DocumentSchemaVersion(newDoc)
	if oldRaw == "" || newRaw == "" {
		return nil
	}

	oldVersion, err := semver.NewVersion(oldRaw)
	if err != nil {
		return nil
	}
	newVersion, err := semver.NewVersion(newRaw)
	if err != nil {
		return fmt.Errorf("invalid schema_version %q in new content", newRaw)
	}

	if oldVersion.Major() != newVersion.Major() {
		return fmt.Errorf("incompatible schema_version: current %s, new %s", oldRaw, newRaw)
	}
	return nil
}

func parseDocument(raw []byte) (map[string]any, error) {
	var doc map[string]any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	// Decode stops at the end of the first value; anything after it means
	// the input as a whole is not one document.
	if err := dec.Decode(new(any)); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after JSON document")
	}
	return doc, nil
}

// writeFileAtomic writes content to a temp file in the target directory
// and renames it into place, so readers never observe a partial write.
func writeFileAtomic(path string, content []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
