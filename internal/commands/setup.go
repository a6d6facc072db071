package commands

import (
	"fmt"
	"time"

	"github.com/ctxkeeper/ctxkeeper/internal/config"
	"github.com/ctxkeeper/ctxkeeper/internal/contextdoc"
	"github.com/ctxkeeper/ctxkeeper/internal/core"
	"github.com/ctxkeeper/ctxkeeper/internal/installer"
	"github.com/ctxkeeper/ctxkeeper/internal/scanner"
	"github.com/ctxkeeper/ctxkeeper/internal/styles"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const followUpPrompt = `
NEXT STEP: Start an assistant session and paste this prompt:

I just installed ctxkeeper. Read the context file to see my system
configuration that was auto-detected.

Help me add:
- Remote servers I SSH into regularly (IP, user, purpose)
- Credentials you'll need for accessing systems
- Key file paths I reference often
- Any active projects with current status

Use the update procedure shown in _instructions_for_claude.
`

// newSetupCmd creates the setup command: scan, build the context document,
// and install the hook, updater wiring, and changelog baseline.
func newSetupCmd(cfg *config.Config, logger *zap.Logger) *cobra.Command {
	var minimal bool
	var force bool
	var contextPath string

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Scan the system and install the persistent context",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, styles.TITLE("ctxkeeper setup"))
			fmt.Fprintln(out, styles.DETAIL("scanning system..."))

			s := scanner.New(scanner.NewSystemRunner(cfg.ProbeTimeout()), logger)
			scan := s.ScanAll(cmd.Context())
			printScanSummary(cmd, scan)

			mode := contextdoc.ModeFull
			if minimal {
				mode = contextdoc.ModeMinimal
			}

			doc := contextdoc.Build(scan, mode, time.Now(), contextdoc.Paths{
				ContextFile:   contextPath,
				ChangelogFile: cfg.ChangelogPath,
			})

			inst := installer.New(installer.Options{
				DataDir:       core.DataDir(),
				HooksDir:      core.HooksDir(),
				ContextPath:   contextPath,
				ChangelogPath: cfg.ChangelogPath,
				SettingsPath:  core.SettingsFile(),
				HookScript:    core.HookScript(),
				Force:         force,
			}, logger)

			if err := inst.Install(doc); err != nil {
				return err
			}

			fmt.Fprintln(out, styles.SUCCESS("setup complete"))
			fmt.Fprintf(out, "  context file: %s\n", contextPath)
			fmt.Fprintf(out, "  changelog:    %s\n", cfg.ChangelogPath)
			fmt.Fprintf(out, "  hook script:  %s\n", core.HookScript())

			// A custom context path must outlive this invocation, or later
			// update and hook runs would fall back to the default location.
			if contextPath != cfg.ContextPath {
				cfg.ContextPath = contextPath
				if err := config.NewLoader(logger).SaveToFile(cfg, core.ConfigFile()); err != nil {
					return err
				}
				fmt.Fprintf(out, "  config:       %s\n", core.ConfigFile())
			}

			fmt.Fprint(out, followUpPrompt)
			return nil
		},
	}

	cmd.Flags().BoolVar(&minimal, "minimal", false,
		"only include hardware/network (no project tracking sections)")
	cmd.Flags().BoolVar(&force, "force", false,
		"overwrite an existing context file and changelog baseline")
	cmd.Flags().StringVar(&contextPath, "context-path", cfg.ContextPath,
		"where to create the context file")

	return cmd
}

func printScanSummary(cmd *cobra.Command, scan *scanner.ScanResult) {
	out := cmd.OutOrStdout()

	memory := "Unknown"
	if scan.Memory.TotalBytes > 0 {
		memory = humanize.IBytes(scan.Memory.TotalBytes)
	}

	fmt.Fprintf(out, "  Platform: %s\n", scan.Platform)
	fmt.Fprintf(out, "  Hostname: %s\n", scan.Hostname)
	fmt.Fprintf(out, "  CPU: %s\n", scan.CPU.Model)
	fmt.Fprintf(out, "  Memory: %s\n", memory)
	fmt.Fprintf(out, "  GPUs: %d\n", len(scan.GPUs))
	fmt.Fprintf(out, "  Storage devices: %d\n", len(scan.Storage))
	fmt.Fprintf(out, "  Network interfaces: %d\n", len(scan.Network.Interfaces))
	fmt.Fprintf(out, "  SSH keys: %d\n", len(scan.SSHKeys))
}
