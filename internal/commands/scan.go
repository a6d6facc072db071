package commands

import (
	"encoding/json"

	"github.com/ctxkeeper/ctxkeeper/internal/config"
	"github.com/ctxkeeper/ctxkeeper/internal/scanner"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newScanCmd creates the scan-only command: probe the system and print the
// discovered facts without installing anything.
func newScanCmd(cfg *config.Config, logger *zap.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Scan the system and print discovered facts as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := scanner.New(scanner.NewSystemRunner(cfg.ProbeTimeout()), logger)
			result := s.ScanAll(cmd.Context())

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetEscapeHTML(false)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}
}
