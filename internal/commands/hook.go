package commands

import (
	"fmt"
	"os"

	"github.com/ctxkeeper/ctxkeeper/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newHookCmd creates the hook command group. The installed shell script is
// the usual entry point; `hook session-start` offers the same behavior for
// hosts that register commands directly.
func newHookCmd(cfg *config.Config, logger *zap.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hook",
		Short: "Session hook handlers",
		Args:  cobra.NoArgs,
	}

	sessionStart := &cobra.Command{
		Use:   "session-start",
		Short: "Print the context document for session start",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(cfg.ContextPath)
			if err != nil {
				if os.IsNotExist(err) {
					// Hooks must never block the session over a missing file.
					fmt.Fprintf(cmd.ErrOrStderr(), "Context file not found: %s\n", cfg.ContextPath)
					return nil
				}
				return fmt.Errorf("failed to read context file: %w", err)
			}

			logger.Debug("session hook emitted context", zap.String("path", cfg.ContextPath))
			fmt.Fprint(cmd.OutOrStdout(), string(content))
			return nil
		},
	}
	sessionStart.Hidden = true

	cmd.AddCommand(sessionStart)
	return cmd
}
