package main

import (
	"fmt"
	"net"
	"os"

	"github.com/de-tools/sentinel-audit/pkg/runtime/logging"
	"github.com/de-tools/sentinel-audit/pkg/server"
	"github.com/de-tools/sentinel-audit/pkg/services/audit"
	"github.com/de-tools/sentinel-audit/pkg/services/config"
	"github.com/de-tools/sentinel-audit/pkg/services/sentinel"
	"github.com/spf13/cobra"
)

var opts config.Options

func main() {
	var rootCmd = &cobra.Command{
		Use:          "web",
		Short:        "Serve Sentinel workspace audits over HTTP",
		SilenceUsage: true,
		RunE:         runServer,
	}

	rootCmd.Flags().StringVarP(&opts.ConfigFile, "config", "c", "", "Path to a YAML/TOML/JSON config file")
	rootCmd.Flags().StringVar(&opts.EnvFile, "env-file", "", "Path to a .env file (default is ./.env when present)")
	rootCmd.Flags().StringVar(&opts.ProfileFile, "profile-file", "",
		fmt.Sprintf("Path to the INI profile file (default is %s)", config.DefaultProfileFile()))
	rootCmd.Flags().StringVarP(&opts.Profile, "profile", "p", "", "Profile section to read workspace coordinates from")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(opts)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, closeLog, err := logging.New(logging.Options{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Output:     os.Stdout,
	})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer closeLog()

	if err := cfg.Validate(); err != nil {
		logger.Error().Strs("missing", cfg.Missing()).Msg("workspace coordinates are not configured")
		return err
	}

	settings := cfg.AuditSettings()
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("invalid audit settings: %w", err)
	}

	source, err := sentinel.Open(sentinel.Options{
		SubscriptionID: cfg.SubscriptionID,
		TenantID:       cfg.TenantID,
		Credential:     cfg.Credential,
	})
	if err != nil {
		return fmt.Errorf("failed to open Sentinel data source: %w", err)
	}

	ws := cfg.Workspace()
	logger.Info().
		Str("workspace", ws.Name).
		Str("resource_group", ws.ResourceGroup).
		Msg("serving audits for workspace")

	api := server.NewWebAPI(server.Config{
		Addr: net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Dependencies: server.Dependencies{
			Registry:  audit.DefaultRegistry(),
			Source:    source,
			Settings:  settings,
			Workspace: ws,
			Logger:    logger,
		},
	})
	return api.Start()
}
