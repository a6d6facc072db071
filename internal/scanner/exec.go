package scanner

import (
	"context"
	"os/exec"
	"strings"
	"time"
)

// DefaultProbeTimeout bounds a single probe command invocation.
const DefaultProbeTimeout = 10 * time.Second

// CommandRunner executes a system command and returns its trimmed stdout.
// Implementations return an error for missing commands, timeouts, or
// non-zero exits; callers treat any error as "probe unavailable".
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
	LookPath(name string) bool
}

// systemRunner runs commands against the real operating system.
type systemRunner struct {
	timeout time.Duration
}

// NewSystemRunner returns a CommandRunner backed by os/exec. A non-positive
// timeout falls back to DefaultProbeTimeout.
func NewSystemRunner(timeout time.Duration) CommandRunner {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	return &systemRunner{timeout: timeout}
}

func (r *systemRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	execCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	out, err := exec.CommandContext(execCtx, name, args...).Output()
	if err != nil {
		if ctxErr := execCtx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", err
	}

	return strings.TrimSpace(string(out)), nil
}

func (r *systemRunner) LookPath(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
