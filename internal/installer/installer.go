// Package installer writes the context document, the session-start hook,
// and the changelog baseline, and registers the hook with the external
// assistant's settings file. Installation is idempotent: rerunning
// completes a partial install without clobbering existing files.
package installer

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/ctxkeeper/ctxkeeper/internal/audit"
	"github.com/ctxkeeper/ctxkeeper/internal/contextdoc"
	"go.uber.org/zap"
	"mvdan.cc/sh/v3/syntax"
)

//go:embed load_context.sh.tmpl
var hookScriptTemplate string

// Options configures an installation.
type Options struct {
	DataDir       string
	HooksDir      string
	ContextPath   string
	ChangelogPath string
	SettingsPath  string
	HookScript    string
	// Force overwrites an existing context file and changelog baseline.
	Force bool
}

// Installer performs the one-time setup.
type Installer struct {
	opts   Options
	logger *zap.Logger
	now    func() time.Time
}

// New creates an Installer.
func New(opts Options, logger *zap.Logger) *Installer {
	return &Installer{
		opts:   opts,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock overrides the installer's clock. Used in tests.
func (i *Installer) WithClock(now func() time.Time) *Installer {
	i.now = now
	return i
}

// Install runs all installation steps in order. Failures abort the current
// step but leave earlier steps in place; rerunning completes the install.
func (i *Installer) Install(doc map[string]any) error {
	if err := i.ensureDirs(); err != nil {
		return err
	}
	if err := i.writeContextFile(doc); err != nil {
		return err
	}
	if err := i.installHookScript(); err != nil {
		return err
	}
	if err := i.registerHook(); err != nil {
		return err
	}
	return i.initializeChangelog(doc)
}

func (i *Installer) ensureDirs() error {
	for _, dir := range []string{i.opts.DataDir, i.opts.HooksDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// writeContextFile writes the initial context document. An existing file is
// preserved unless Force is set.
func (i *Installer) writeContextFile(doc map[string]any) error {
	if _, err := os.Stat(i.opts.ContextPath); err == nil && !i.opts.Force {
		i.logger.Info("context file already exists, skipping",
			zap.String("path", i.opts.ContextPath))
		return nil
	}

	canonical, err := contextdoc.Canonical(doc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(i.opts.ContextPath, []byte(canonical), 0644); err != nil {
		return fmt.Errorf("failed to write context file: %w", err)
	}

	i.logger.Info("created context file", zap.String("path", i.opts.ContextPath))
	return nil
}

// installHookScript renders the hook script template, verifies the result
// is valid shell, and installs it executable.
func (i *Installer) installHookScript() error {
	script, err := renderHookScript(i.opts.ContextPath)
	if err != nil {
		return err
	}

	if err := os.WriteFile(i.opts.HookScript, []byte(script), 0755); err != nil {
		return fmt.Errorf("failed to write hook script: %w", err)
	}

	i.logger.Info("installed hook script", zap.String("path", i.opts.HookScript))
	return nil
}

// renderHookScript fills the embedded template and parse-checks the output
// so a bad context path can never produce a broken hook.
func renderHookScript(contextPath string) (string, error) {
	tmpl, err := template.New("hook").Parse(hookScriptTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse hook template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, map[string]string{"ContextFile": contextPath}); err != nil {
		return "", fmt.Errorf("failed to render hook script: %w", err)
	}

	script := buf.String()
	parser := syntax.NewParser()
	if _, err := parser.Parse(strings.NewReader(script), "load_context.sh"); err != nil {
		return "", fmt.Errorf("generated hook script is not valid shell: %w", err)
	}

	return script, nil
}

// initializeChangelog writes the BASELINE block. An existing changelog is
// preserved unless Force is set, so history survives reruns.
func (i *Installer) initializeChangelog(doc map[string]any) error {
	changelog := audit.NewChangelog(i.opts.ChangelogPath)
	if changelog.Exists() && !i.opts.Force {
		i.logger.Info("changelog already exists, skipping",
			zap.String("path", i.opts.ChangelogPath))
		return nil
	}

	baseline, err := contextdoc.Canonical(doc)
	if err != nil {
		return err
	}
	if err := changelog.WriteBaseline(baseline, i.now()); err != nil {
		return err
	}

	i.logger.Info("initialized changelog", zap.String("path", i.opts.ChangelogPath))
	return nil
}
