package domain

import "time"

// Records returned by the data source. Empty strings and nil pointers mean the platform
// did not report the field.

type DataConnector struct {
	Name  string
	Kind  string
	State string
}

type AnalyticsRule struct {
	DisplayName string
	Kind        string
	Enabled     *bool
	Severity    string
}

type AutomationRule struct {
	DisplayName string
	State       string
}

type Incident struct {
	Severity       string
	Status         string
	CreatedTimeUTC time.Time
}

type WorkspaceInfo struct {
	Name              string
	ProvisioningState string
	RetentionInDays   *int
	DailyQuotaGB      *float64
}
