// Package scanner probes the local operating system for hardware, network,
// and SSH key facts. Every probe is best-effort: a missing command, a
// timeout, or an unparseable output degrades to a zero value instead of
// failing the scan.
package scanner

import (
	"context"
	"os"
	"runtime"

	"go.uber.org/zap"
)

// Scanner collects system facts through a CommandRunner.
type Scanner struct {
	platform string
	runner   CommandRunner
	logger   *zap.Logger
}

// New creates a Scanner for the current platform.
func New(runner CommandRunner, logger *zap.Logger) *Scanner {
	return &Scanner{
		platform: normalizePlatform(runtime.GOOS),
		runner:   runner,
		logger:   logger,
	}
}

// normalizePlatform maps GOOS values onto the platform names used in the
// context document.
func normalizePlatform(goos string) string {
	if goos == "darwin" {
		return "macos"
	}
	return goos
}

// Platform returns the normalized platform name ("linux", "macos", "windows").
func (s *Scanner) Platform() string {
	return s.platform
}

// ScanAll runs every probe and returns the combined results. It never
// returns an error: individual probe failures are logged and omitted.
func (s *Scanner) ScanAll(ctx context.Context) *ScanResult {
	hostname, err := os.Hostname()
	if err != nil {
		s.logger.Warn("failed to determine hostname", zap.Error(err))
	}

	return &ScanResult{
		Platform: s.platform,
		Hostname: hostname,
		CPU:      s.scanCPU(ctx),
		Memory:   s.scanMemory(ctx),
		GPUs:     s.scanGPUs(ctx),
		Storage:  s.scanStorage(ctx),
		Network:  s.scanNetwork(ctx),
		SSHKeys:  s.scanSSHKeys(),
	}
}

// run executes a probe command, logging failures at debug level. A probe
// failure is expected on machines that simply lack the tool.
func (s *Scanner) run(ctx context.Context, name string, args ...string) (string, bool) {
	out, err := s.runner.Run(ctx, name, args...)
	if err != nil {
		s.logger.Debug("probe command failed",
			zap.String("command", name),
			zap.Error(err),
		)
		return "", false
	}
	return out, true
}
