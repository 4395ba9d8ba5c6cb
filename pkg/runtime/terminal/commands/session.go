package commands

import (
	"context"

	"github.com/de-tools/sentinel-audit/pkg/models/domain"
	"github.com/de-tools/sentinel-audit/pkg/services/audit"
	"github.com/de-tools/sentinel-audit/pkg/services/config"
	"github.com/rs/zerolog"
)

// SourceFactory opens the data source the checks query.
type SourceFactory func(ctx context.Context, cfg *config.Config) (audit.DataSource, error)

// Console renders human readable output.
type Console interface {
	Banner(ws domain.Workspace) error
	Handle(report *domain.AuditReport) error
}

// Session carries the global flags and what the root command resolved from them.
// Config, Logger and Console are populated before any subcommand runs.
type Session struct {
	ConfigFile  string
	EnvFile     string
	ProfileFile string
	Profile     string
	LogLevel    string
	LogFormat   string
	LogFile     string
	NoColor     bool

	Config  *config.Config
	Logger  zerolog.Logger
	Console Console
}
