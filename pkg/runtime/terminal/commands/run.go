package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/de-tools/sentinel-audit/pkg/models/domain"
	"github.com/de-tools/sentinel-audit/pkg/runtime/terminal/export"
	"github.com/de-tools/sentinel-audit/pkg/services/audit"
	"github.com/de-tools/sentinel-audit/pkg/services/config"
	"github.com/spf13/cobra"
)

type RunCmd struct {
	session   *Session
	registry  audit.Registry
	sources   SourceFactory
	outputDir string
	only      []string
}

func NewRunCmd(session *Session, registry audit.Registry, sources SourceFactory) *cobra.Command {
	rc := &RunCmd{session: session, registry: registry, sources: sources}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Audit the configured Sentinel workspace and export the findings",
		RunE:  rc.run,
	}

	cmd.Flags().StringVarP(&rc.outputDir, "output-dir", "o", "", "Directory for the CSV report (overrides output_dir)")
	cmd.Flags().StringSliceVar(&rc.only, "only", nil,
		fmt.Sprintf("Run only these checks, still in the fixed order (%s)", strings.Join(registry.ListChecks(), ", ")))

	return cmd
}

func (rc *RunCmd) run(cmd *cobra.Command, _ []string) error {
	cfg := rc.session.Config
	if err := cfg.Validate(); err != nil {
		printSetupGuidance(cmd.ErrOrStderr(), cfg.Missing(), rc.profileFile())
		return err
	}

	logger := rc.session.Logger
	ctx := logger.WithContext(cmd.Context())
	ws := cfg.Workspace()

	source, err := rc.sources(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open data source: %w", err)
	}

	checks, err := rc.registry.Build(source, cfg.AuditSettings(), rc.only...)
	if err != nil {
		return fmt.Errorf("failed to build checks: %w", err)
	}

	if err := rc.session.Console.Banner(ws); err != nil {
		return err
	}

	report, err := audit.NewRunner(checks...).Run(ctx, ws)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := rc.session.Console.Handle(report); err != nil {
		if errors.Is(err, domain.ErrEmptyReport) {
			fmt.Fprintf(out, "\nNothing to report: no check produced findings, no file was written.\n")
			return nil
		}
		return err
	}

	dir := cfg.OutputDir
	if rc.outputDir != "" {
		dir = rc.outputDir
	}
	path, err := export.NewReporter(dir).Export(report)
	if err != nil {
		return fmt.Errorf("failed to export report: %w", err)
	}

	logger.Info().Str("audit_id", report.ID).Str("path", path).Msg("report exported")
	fmt.Fprintf(out, "\nReport saved to: %s\nAudit completed successfully.\n", path)
	return nil
}

func (rc *RunCmd) profileFile() string {
	if rc.session.ProfileFile != "" {
		return rc.session.ProfileFile
	}
	return config.DefaultProfileFile()
}

func printSetupGuidance(w io.Writer, missing []string, profileFile string) {
	fmt.Fprintln(w, "Configuration required:")
	fmt.Fprintln(w, "1. Set the following environment variables, or add them to .env, a config file or a profile:")
	for _, name := range missing {
		fmt.Fprintf(w, "   - %s\n", name)
	}
	fmt.Fprintln(w, "2. Make sure you are authenticated with the Azure CLI: az login")

	registry, err := config.NewProfileRegistry(profileFile)
	if err != nil {
		fmt.Fprintf(w, "No profile file found at %s.\n", profileFile)
		return
	}
	profiles := registry.GetProfiles()
	if len(profiles) == 0 {
		fmt.Fprintf(w, "Profile file %s has no profiles.\n", profileFile)
		return
	}
	fmt.Fprintf(w, "Available profiles in %s: %s (select one with --profile)\n", profileFile, strings.Join(profiles, ", "))
}
