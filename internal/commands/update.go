package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/ctxkeeper/ctxkeeper/internal/audit"
	"github.com/ctxkeeper/ctxkeeper/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// newUpdateCmd creates the update command: read a full replacement JSON
// document from stdin, log the diff, and replace the context file.
func newUpdateCmd(cfg *config.Config, logger *zap.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Apply a replacement context document from stdin, logging the diff",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
				return fmt.Errorf("no content provided on stdin: pipe a JSON document")
			}

			newRaw, err := io.ReadAll(in)
			if err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}

			updater := audit.NewUpdater(cfg.ContextPath, cfg.ChangelogPath, logger)
			result, err := updater.Apply(newRaw)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !result.Changed {
				fmt.Fprintln(out, "No changes detected")
				return nil
			}

			fmt.Fprintf(out, "Updated %s\n", cfg.ContextPath)
			fmt.Fprintf(out, "  +%d -%d lines\n", result.Additions, result.Deletions)
			fmt.Fprintf(out, "Diff appended to %s\n", cfg.ChangelogPath)
			return nil
		},
	}
}
