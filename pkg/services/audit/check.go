package audit

import (
	"context"
	"time"

	"github.com/de-tools/sentinel-audit/pkg/models/domain"
)

// DataSource is the remote platform queried by the checks. Implementations perform
// read-only calls and do not retry.
type DataSource interface {
	ListConnectors(ctx context.Context, ws domain.Workspace) ([]domain.DataConnector, error)
	ListAnalyticsRules(ctx context.Context, ws domain.Workspace) ([]domain.AnalyticsRule, error)
	ListAutomationRules(ctx context.Context, ws domain.Workspace) ([]domain.AutomationRule, error)
	ListIncidents(ctx context.Context, ws domain.Workspace, since time.Time) ([]domain.Incident, error)
	GetWorkspace(ctx context.Context, ws domain.Workspace) (*domain.WorkspaceInfo, error)
}

// Check produces findings from one data source. A failing call is returned as a
// *DataSourceError and the check contributes nothing.
type Check interface {
	Name() string
	Category() string
	Run(ctx context.Context, ws domain.Workspace) ([]domain.Finding, error)
}

// Result is the outcome of a single check: findings on success, the cause on failure.
type Result struct {
	Check    string
	Category string
	Findings []domain.Finding
	Err      error
	Duration time.Duration
}

func (r Result) Failed() bool {
	return r.Err != nil
}
