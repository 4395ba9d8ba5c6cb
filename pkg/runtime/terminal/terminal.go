package terminal

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/de-tools/sentinel-audit/pkg/runtime/logging"
	"github.com/de-tools/sentinel-audit/pkg/runtime/terminal/commands"
	"github.com/de-tools/sentinel-audit/pkg/services/audit"
	"github.com/de-tools/sentinel-audit/pkg/services/config"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	session  *commands.Session
	output   io.Writer
	errOut   io.Writer
	closeLog func() error
	rootCmd  *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Registry audit.Registry
	Sources  commands.SourceFactory
	Output   io.Writer
	// ErrOutput receives logs and setup guidance
	ErrOutput io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.ErrOutput == nil {
		opts.ErrOutput = os.Stderr
	}
	if opts.Registry == nil {
		opts.Registry = audit.DefaultRegistry()
	}
	if opts.Sources == nil {
		opts.Sources = func(context.Context, *config.Config) (audit.DataSource, error) {
			return nil, fmt.Errorf("no data source configured")
		}
	}

	cli := &CLI{
		session:  &commands.Session{},
		output:   opts.Output,
		errOut:   opts.ErrOutput,
		closeLog: func() error { return nil },
	}

	cli.rootCmd = cli.newRootCmd(opts)
	cli.rootCmd.SetOut(opts.Output)
	cli.rootCmd.SetErr(opts.ErrOutput)
	return cli
}

func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) Execute() error {
	return cli.ExecuteContext(context.Background())
}

func (cli *CLI) ExecuteContext(ctx context.Context) error {
	defer func() { _ = cli.closeLog() }()
	return cli.rootCmd.ExecuteContext(ctx)
}

func (cli *CLI) newRootCmd(opts Options) *cobra.Command {
	s := cli.session
	cmd := &cobra.Command{
		Use:               "sentinel-audit",
		Short:             "Health and compliance audit for Microsoft Sentinel workspaces",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: cli.setup,
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&s.ConfigFile, "config", "c", "", "Path to a YAML/TOML/JSON config file")
	flags.StringVar(&s.EnvFile, "env-file", "", "Path to a .env file (default is ./.env when present)")
	flags.StringVar(&s.ProfileFile, "profile-file", "",
		fmt.Sprintf("Path to the INI profile file (default is %s)", config.DefaultProfileFile()))
	flags.StringVarP(&s.Profile, "profile", "p", "", "Profile section to read workspace coordinates from")
	flags.StringVar(&s.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVar(&s.LogFormat, "log-format", "", "Log format: console or json")
	flags.StringVar(&s.LogFile, "log-file", "", "Also write JSON logs to this rotating file")
	flags.BoolVar(&s.NoColor, "no-color", false, "Disable colored output")

	cmd.AddCommand(commands.NewRunCmd(s, opts.Registry, opts.Sources))
	cmd.AddCommand(commands.NewChecksCmd(opts.Registry))

	return cmd
}

func (cli *CLI) setup(_ *cobra.Command, _ []string) error {
	s := cli.session
	cfg, err := config.Load(config.Options{
		ConfigFile:  s.ConfigFile,
		EnvFile:     s.EnvFile,
		ProfileFile: s.ProfileFile,
		Profile:     s.Profile,
	})
	if err != nil {
		return err
	}

	logOpts := logging.Options{
		Level:      firstSet(s.LogLevel, cfg.Log.Level),
		Format:     firstSet(s.LogFormat, cfg.Log.Format),
		File:       firstSet(s.LogFile, cfg.Log.File),
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Output:     cli.errOut,
		NoColor:    s.NoColor,
	}
	logger, closeLog, err := logging.New(logOpts)
	if err != nil {
		return err
	}

	s.Config = cfg
	s.Logger = logger
	s.Console = NewReporter(cli.output, s.NoColor)
	cli.closeLog = closeLog
	return nil
}

func firstSet(flag, configured string) string {
	if flag != "" {
		return flag
	}
	return configured
}
