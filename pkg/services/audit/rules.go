package audit

import (
	"fmt"
	"time"

	"github.com/de-tools/sentinel-audit/pkg/models/domain"
)

const (
	IssueDisconnected   = "Disconnected"
	IssueDisabled       = "Disabled"
	IssueHighVolume     = "High volume"
	IssueCheckRetention = "Check retention"
)

const (
	stateConnected = "Connected"
	stateEnabled   = "Enabled"
)

// Settings holds the classification thresholds.
type Settings struct {
	// IncidentVolumeThreshold flags a severity bucket whose count is strictly above it (default: 100)
	IncidentVolumeThreshold int
	// MinRetentionDays flags workspaces retaining data for fewer days (default: 30)
	MinRetentionDays int
	// IncidentWindow is the trailing window analyzed for incidents (default: 30 days)
	IncidentWindow time.Duration
}

// DefaultSettings returns the default audit policy.
func DefaultSettings() Settings {
	return Settings{
		IncidentVolumeThreshold: 100,
		MinRetentionDays:        30,
		IncidentWindow:          30 * 24 * time.Hour,
	}
}

func (s Settings) Validate() error {
	if s.IncidentVolumeThreshold < 0 {
		return fmt.Errorf("incident volume threshold must not be negative, got %d", s.IncidentVolumeThreshold)
	}
	if s.MinRetentionDays < 0 {
		return fmt.Errorf("minimum retention must not be negative, got %d", s.MinRetentionDays)
	}
	if s.IncidentWindow <= 0 {
		return fmt.Errorf("incident window must be positive, got %s", s.IncidentWindow)
	}
	return nil
}

// periodLabel describes the incident window. Windows that are not whole days are
// printed as a duration.
func (s Settings) periodLabel() string {
	const day = 24 * time.Hour
	if s.IncidentWindow%day != 0 {
		return fmt.Sprintf("Last %s", s.IncidentWindow)
	}
	days := int(s.IncidentWindow / day)
	if days == 1 {
		return "Last 1 day"
	}
	return fmt.Sprintf("Last %d days", days)
}

func ClassifyConnector(state string) string {
	if state != stateConnected {
		return IssueDisconnected
	}
	return domain.IssueOK
}

func ClassifyAnalyticsRule(enabled *bool) string {
	if enabled == nil || !*enabled {
		return IssueDisabled
	}
	return domain.IssueOK
}

func ClassifyAutomationRule(state string) string {
	if state != stateEnabled {
		return IssueDisabled
	}
	return domain.IssueOK
}

func (s Settings) ClassifyIncidentVolume(count int) string {
	if count > s.IncidentVolumeThreshold {
		return IssueHighVolume
	}
	return domain.IssueOK
}

// ClassifyRetention flags retention below the minimum. Unknown retention is flagged too.
func (s Settings) ClassifyRetention(days *int) string {
	if days == nil || *days < s.MinRetentionDays {
		return IssueCheckRetention
	}
	return domain.IssueOK
}

// orUnknown replaces a missing status value with the explicit Unknown marker.
func orUnknown(v string) string {
	if v == "" {
		return domain.Unknown
	}
	return v
}
