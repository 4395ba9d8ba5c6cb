package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/de-tools/sentinel-audit/pkg/models/domain"
	"github.com/de-tools/sentinel-audit/pkg/services/audit"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvSubscriptionID = "AZURE_SUBSCRIPTION_ID"
	EnvResourceGroup  = "AZURE_RESOURCE_GROUP"
	EnvWorkspaceName  = "SENTINEL_WORKSPACE_NAME"
	EnvTenantID       = "AZURE_TENANT_ID"

	envPrefix      = "SENTINEL_AUDIT"
	defaultProfile = "default"
)

// ErrMissingSettings is returned when the workspace coordinates cannot be resolved.
var ErrMissingSettings = errors.New("missing required settings")

type AuditConfig struct {
	IncidentVolumeThreshold int `mapstructure:"incident_volume_threshold"`
	RetentionDaysThreshold  int `mapstructure:"retention_days_threshold"`
	IncidentWindowDays      int `mapstructure:"incident_window_days"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
	// rotation of the log file
	MaxSizeMB  int `mapstructure:"max_size_mb"`
	MaxBackups int `mapstructure:"max_backups"`
	MaxAgeDays int `mapstructure:"max_age_days"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Config struct {
	SubscriptionID string       `mapstructure:"subscription_id"`
	ResourceGroup  string       `mapstructure:"resource_group"`
	WorkspaceName  string       `mapstructure:"workspace_name"`
	TenantID       string       `mapstructure:"tenant_id"`
	Credential     string       `mapstructure:"credential"`
	OutputDir      string       `mapstructure:"output_dir"`
	Audit          AuditConfig  `mapstructure:"audit"`
	Log            LogConfig    `mapstructure:"log"`
	Server         ServerConfig `mapstructure:"server"`
}

type Options struct {
	// ConfigFile is an optional YAML/TOML/JSON file
	ConfigFile string
	// EnvFile is loaded into the process environment before anything else is read
	EnvFile string
	// ProfileFile and Profile select the INI fallback for workspace coordinates
	ProfileFile string
	Profile     string
}

// DefaultProfileFile returns ~/.azure/sentinel-audit.ini, or "" when the home
// directory cannot be resolved.
func DefaultProfileFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".azure", "sentinel-audit.ini")
}

// Load resolves configuration from, in order of precedence: environment variables,
// the .env file, the config file, the INI profile and the built-in defaults.
// It never fails because of missing coordinates; call Missing for that.
func Load(opts Options) (*Config, error) {
	if err := loadEnvFile(opts.EnvFile); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("subscription_id", EnvSubscriptionID, envPrefix+"_SUBSCRIPTION_ID")
	_ = v.BindEnv("resource_group", EnvResourceGroup, envPrefix+"_RESOURCE_GROUP")
	_ = v.BindEnv("workspace_name", EnvWorkspaceName, envPrefix+"_WORKSPACE_NAME")
	_ = v.BindEnv("tenant_id", EnvTenantID, envPrefix+"_TENANT_ID")
	_ = v.BindEnv("server.host", "SERVER_HOST", envPrefix+"_SERVER_HOST")
	_ = v.BindEnv("server.port", "SERVER_PORT", envPrefix+"_SERVER_PORT")

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.applyProfile(opts); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	defaults := audit.DefaultSettings()
	v.SetDefault("credential", "default")
	v.SetDefault("output_dir", ".")
	v.SetDefault("audit.incident_volume_threshold", defaults.IncidentVolumeThreshold)
	v.SetDefault("audit.retention_days_threshold", defaults.MinRetentionDays)
	v.SetDefault("audit.incident_window_days", int(defaults.IncidentWindow/(24*time.Hour)))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", "8080")
}

func loadEnvFile(path string) error {
	if path == "" {
		// an absent ./.env is fine
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// applyProfile fills coordinates that are still empty from the INI profile file.
// A missing default profile file is ignored; an explicitly requested one is not.
func (c *Config) applyProfile(opts Options) error {
	if c.SubscriptionID != "" && c.ResourceGroup != "" && c.WorkspaceName != "" {
		return nil
	}

	path := opts.ProfileFile
	explicit := path != "" || opts.Profile != ""
	if path == "" {
		path = DefaultProfileFile()
	}
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if explicit {
			return fmt.Errorf("failed to open profile file %s: %w", path, err)
		}
		return nil
	}

	registry, err := NewProfileRegistry(path)
	if err != nil {
		return err
	}

	name := opts.Profile
	if name == "" {
		name = defaultProfile
	}
	profile, err := registry.GetProfile(name)
	if err != nil {
		if explicit {
			return err
		}
		return nil
	}

	c.SubscriptionID = firstNonEmpty(c.SubscriptionID, profile.SubscriptionID)
	c.ResourceGroup = firstNonEmpty(c.ResourceGroup, profile.ResourceGroup)
	c.WorkspaceName = firstNonEmpty(c.WorkspaceName, profile.WorkspaceName)
	c.TenantID = firstNonEmpty(c.TenantID, profile.TenantID)
	return nil
}

// Missing lists the environment variables that still need a value.
func (c *Config) Missing() []string {
	var missing []string
	if c.SubscriptionID == "" {
		missing = append(missing, EnvSubscriptionID)
	}
	if c.ResourceGroup == "" {
		missing = append(missing, EnvResourceGroup)
	}
	if c.WorkspaceName == "" {
		missing = append(missing, EnvWorkspaceName)
	}
	return missing
}

// Validate returns ErrMissingSettings naming every unset coordinate.
func (c *Config) Validate() error {
	if missing := c.Missing(); len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingSettings, strings.Join(missing, ", "))
	}
	return nil
}

func (c *Config) Workspace() domain.Workspace {
	return domain.Workspace{
		SubscriptionID: c.SubscriptionID,
		ResourceGroup:  c.ResourceGroup,
		Name:           c.WorkspaceName,
	}
}

func (c *Config) AuditSettings() audit.Settings {
	return audit.Settings{
		IncidentVolumeThreshold: c.Audit.IncidentVolumeThreshold,
		MinRetentionDays:        c.Audit.RetentionDaysThreshold,
		IncidentWindow:          time.Duration(c.Audit.IncidentWindowDays) * 24 * time.Hour,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
