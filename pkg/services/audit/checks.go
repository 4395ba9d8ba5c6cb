package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/de-tools/sentinel-audit/pkg/models/domain"
)

// Attribute keys, also used as export column headers.
const (
	AttrType          = "Type"
	AttrStatus        = "Status"
	AttrEnabled       = "Enabled"
	AttrSeverity      = "Severity"
	AttrCount         = "Count"
	AttrPeriod        = "Period"
	AttrRetentionDays = "Retention Days"
	AttrDailyCapGB    = "Daily Cap GB"
)

const unlimitedQuota = "Unlimited"

type connectorCheck struct {
	source DataSource
}

// NewConnectorCheck flags data connectors that are not connected.
func NewConnectorCheck(source DataSource) Check {
	return &connectorCheck{source: source}
}

func (c *connectorCheck) Name() string     { return "data_connectors" }
func (c *connectorCheck) Category() string { return domain.CategoryDataConnectors }

func (c *connectorCheck) Run(ctx context.Context, ws domain.Workspace) ([]domain.Finding, error) {
	connectors, err := c.source.ListConnectors(ctx, ws)
	if err != nil {
		return nil, &DataSourceError{Check: c.Name(), Op: "list data connectors", Err: err}
	}

	findings := make([]domain.Finding, 0, len(connectors))
	for _, conn := range connectors {
		findings = append(findings, domain.Finding{
			Category: c.Category(),
			Name:     conn.Name,
			Attributes: domain.Attributes{
				{Key: AttrType, Value: conn.Kind},
				{Key: AttrStatus, Value: orUnknown(conn.State)},
			},
			Issue: ClassifyConnector(conn.State),
		})
	}
	return findings, nil
}

type analyticsRuleCheck struct {
	source DataSource
}

// NewAnalyticsRuleCheck flags analytics (detection) rules that are not enabled.
func NewAnalyticsRuleCheck(source DataSource) Check {
	return &analyticsRuleCheck{source: source}
}

func (c *analyticsRuleCheck) Name() string     { return "analytics_rules" }
func (c *analyticsRuleCheck) Category() string { return domain.CategoryAnalyticsRules }

func (c *analyticsRuleCheck) Run(ctx context.Context, ws domain.Workspace) ([]domain.Finding, error) {
	rules, err := c.source.ListAnalyticsRules(ctx, ws)
	if err != nil {
		return nil, &DataSourceError{Check: c.Name(), Op: "list analytics rules", Err: err}
	}

	findings := make([]domain.Finding, 0, len(rules))
	for _, rule := range rules {
		var enabled any = domain.Unknown
		if rule.Enabled != nil {
			enabled = *rule.Enabled
		}
		findings = append(findings, domain.Finding{
			Category: c.Category(),
			Name:     rule.DisplayName,
			Attributes: domain.Attributes{
				{Key: AttrType, Value: rule.Kind},
				{Key: AttrEnabled, Value: enabled},
				{Key: AttrSeverity, Value: orUnknown(rule.Severity)},
			},
			Issue: ClassifyAnalyticsRule(rule.Enabled),
		})
	}
	return findings, nil
}

type automationRuleCheck struct {
	source DataSource
}

// NewAutomationRuleCheck flags automation rules whose state is not Enabled.
func NewAutomationRuleCheck(source DataSource) Check {
	return &automationRuleCheck{source: source}
}

func (c *automationRuleCheck) Name() string     { return "automation_rules" }
func (c *automationRuleCheck) Category() string { return domain.CategoryAutomation }

func (c *automationRuleCheck) Run(ctx context.Context, ws domain.Workspace) ([]domain.Finding, error) {
	rules, err := c.source.ListAutomationRules(ctx, ws)
	if err != nil {
		return nil, &DataSourceError{Check: c.Name(), Op: "list automation rules", Err: err}
	}

	findings := make([]domain.Finding, 0, len(rules))
	for _, rule := range rules {
		findings = append(findings, domain.Finding{
			Category: c.Category(),
			Name:     rule.DisplayName,
			Attributes: domain.Attributes{
				{Key: AttrType, Value: "Automation Rule"},
				{Key: AttrStatus, Value: orUnknown(rule.State)},
				{Key: AttrEnabled, Value: rule.State == stateEnabled},
			},
			Issue: ClassifyAutomationRule(rule.State),
		})
	}
	return findings, nil
}

type incidentCheck struct {
	source   DataSource
	settings Settings
	now      func() time.Time
}

// NewIncidentCheck summarizes incidents created in the trailing window, one finding
// per severity, and flags severities above the volume threshold.
func NewIncidentCheck(source DataSource, settings Settings) Check {
	return &incidentCheck{source: source, settings: settings, now: time.Now}
}

func (c *incidentCheck) Name() string     { return "incidents" }
func (c *incidentCheck) Category() string { return domain.CategoryIncidentAnalysis }

func (c *incidentCheck) Run(ctx context.Context, ws domain.Workspace) ([]domain.Finding, error) {
	since := c.now().UTC().Add(-c.settings.IncidentWindow)
	incidents, err := c.source.ListIncidents(ctx, ws, since)
	if err != nil {
		return nil, &DataSourceError{Check: c.Name(), Op: "list incidents", Err: err}
	}

	var severities []string
	counts := map[string]int{}
	for _, inc := range incidents {
		if !inc.CreatedTimeUTC.IsZero() && inc.CreatedTimeUTC.Before(since) {
			continue
		}
		severity := orUnknown(inc.Severity)
		if _, seen := counts[severity]; !seen {
			severities = append(severities, severity)
		}
		counts[severity]++
	}

	period := c.settings.periodLabel()
	findings := make([]domain.Finding, 0, len(severities))
	for _, severity := range severities {
		count := counts[severity]
		findings = append(findings, domain.Finding{
			Category: c.Category(),
			Name:     fmt.Sprintf("Incidents - %s", severity),
			Attributes: domain.Attributes{
				{Key: AttrCount, Value: count},
				{Key: AttrPeriod, Value: period},
			},
			Issue: c.settings.ClassifyIncidentVolume(count),
		})
	}
	return findings, nil
}

type workspaceCheck struct {
	source   DataSource
	settings Settings
}

// NewWorkspaceCheck reports the workspace configuration and flags short retention.
func NewWorkspaceCheck(source DataSource, settings Settings) Check {
	return &workspaceCheck{source: source, settings: settings}
}

func (c *workspaceCheck) Name() string     { return "workspace_health" }
func (c *workspaceCheck) Category() string { return domain.CategoryWorkspaceHealth }

func (c *workspaceCheck) Run(ctx context.Context, ws domain.Workspace) ([]domain.Finding, error) {
	info, err := c.source.GetWorkspace(ctx, ws)
	if err != nil {
		return nil, &DataSourceError{Check: c.Name(), Op: "get workspace", Err: err}
	}
	if info == nil {
		return nil, &DataSourceError{Check: c.Name(), Op: "get workspace", Err: fmt.Errorf("empty response for workspace %s", ws.Name)}
	}

	name := info.Name
	if name == "" {
		name = ws.Name
	}

	var retention any = domain.Unknown
	if info.RetentionInDays != nil {
		retention = *info.RetentionInDays
	}

	var dailyCap any = unlimitedQuota
	if info.DailyQuotaGB != nil && *info.DailyQuotaGB >= 0 {
		dailyCap = *info.DailyQuotaGB
	}

	return []domain.Finding{{
		Category: c.Category(),
		Name:     name,
		Attributes: domain.Attributes{
			{Key: AttrStatus, Value: orUnknown(info.ProvisioningState)},
			{Key: AttrRetentionDays, Value: retention},
			{Key: AttrDailyCapGB, Value: dailyCap},
		},
		Issue: c.settings.ClassifyRetention(info.RetentionInDays),
	}}, nil
}
