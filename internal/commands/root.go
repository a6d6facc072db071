// Package commands defines the ctxkeeper command line interface.
package commands

import (
	"github.com/ctxkeeper/ctxkeeper/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewRootCmd assembles the ctxkeeper command tree.
func NewRootCmd(cfg *config.Config, logger *zap.Logger, version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ctxkeeper",
		Short: "Persistent infrastructure context for AI coding assistants",
		Long: `ctxkeeper scans local hardware and network facts into a JSON context
document, installs a session-start hook so an external AI coding assistant
loads it automatically, and records every later mutation of the document
as a timestamped unified diff in an append-only changelog.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newScanCmd(cfg, logger))
	rootCmd.AddCommand(newSetupCmd(cfg, logger))
	rootCmd.AddCommand(newUpdateCmd(cfg, logger))
	rootCmd.AddCommand(newHookCmd(cfg, logger))

	return rootCmd
}
