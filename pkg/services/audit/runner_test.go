package audit

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/de-tools/sentinel-audit/pkg/models/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(findings []domain.Finding) []string {
	out := make([]string, 0, len(findings))
	for _, f := range findings {
		out = append(out, f.Name)
	}
	return out
}

func okFinding(category, name string) domain.Finding {
	return domain.Finding{Category: category, Name: name, Issue: domain.IssueOK}
}

func TestRunner_IsolatesDataSourceFailures(t *testing.T) {
	failing := &stubCheck{
		name:     "analytics_rules",
		category: domain.CategoryAnalyticsRules,
		findings: []domain.Finding{okFinding(domain.CategoryAnalyticsRules, "never")},
		err:      &DataSourceError{Check: "analytics_rules", Op: "list analytics rules", Err: errors.New("timeout")},
	}
	checks := []*stubCheck{
		{name: "data_connectors", category: domain.CategoryDataConnectors, findings: []domain.Finding{
			okFinding(domain.CategoryDataConnectors, "c1"),
			okFinding(domain.CategoryDataConnectors, "c2"),
		}},
		failing,
		{name: "automation_rules", category: domain.CategoryAutomation, findings: []domain.Finding{
			okFinding(domain.CategoryAutomation, "a1"),
		}},
		{name: "workspace_health", category: domain.CategoryWorkspaceHealth, findings: []domain.Finding{
			okFinding(domain.CategoryWorkspaceHealth, "ws"),
		}},
	}

	runner := NewRunner(checks[0], checks[1], checks[2], checks[3])
	report, err := runner.Run(context.Background(), testWorkspace)
	require.NoError(t, err)

	assert.Equal(t, []string{"c1", "c2", "a1", "ws"}, names(report.Findings()))
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "analytics_rules", report.Failures[0].Check)
	assert.Equal(t, domain.CategoryAnalyticsRules, report.Failures[0].Category)
	assert.Contains(t, report.Failures[0].Error, "timeout")
	for _, c := range checks {
		assert.Equal(t, 1, c.calls, c.name)
	}
	assert.False(t, report.FinishedAt.IsZero())
}

func TestRunner_AllChecksFailingYieldsEmptyReport(t *testing.T) {
	dsErr := &DataSourceError{Check: "x", Op: "list", Err: errors.New("unauthorized")}
	runner := NewRunner(
		&stubCheck{name: "data_connectors", err: dsErr},
		&stubCheck{name: "incidents", err: dsErr},
	)

	report, err := runner.Run(context.Background(), testWorkspace)
	require.NoError(t, err)
	assert.True(t, report.Empty())
	assert.Len(t, report.Failures, 2)
}

func TestRunner_NoChecks(t *testing.T) {
	report, err := NewRunner().Run(context.Background(), testWorkspace)
	require.NoError(t, err)
	assert.True(t, report.Empty())
	assert.Equal(t, testWorkspace, report.Workspace)
}

func TestRunner_UnexpectedErrorAbortsRun(t *testing.T) {
	boom := errors.New("nil map write")
	after := &stubCheck{name: "workspace_health", findings: []domain.Finding{okFinding(domain.CategoryWorkspaceHealth, "ws")}}
	runner := NewRunner(
		&stubCheck{name: "data_connectors", findings: []domain.Finding{okFinding(domain.CategoryDataConnectors, "c1")}},
		&stubCheck{name: "incidents", err: boom},
		after,
	)

	report, err := runner.Run(context.Background(), testWorkspace)
	assert.Nil(t, report)
	assert.ErrorIs(t, err, boom)

	var failure *RunFailure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, "incidents", failure.Check)
	assert.Equal(t, 0, after.calls)
}

func TestRunner_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	check := &stubCheck{name: "data_connectors"}
	report, err := NewRunner(check).Run(ctx, testWorkspace)
	assert.Nil(t, report)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, check.calls)
}

func TestRunner_LogsSkippedChecks(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	ctx := logger.WithContext(context.Background())

	runner := NewRunner(&stubCheck{
		name: "incidents",
		err:  &DataSourceError{Check: "incidents", Op: "list incidents", Err: errors.New("throttled")},
	})
	_, err := runner.Run(ctx, testWorkspace)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `"check":"incidents"`)
	assert.Contains(t, buf.String(), "check skipped")
	assert.Contains(t, buf.String(), "throttled")
}

func TestRunner_WithDefaultRegistry(t *testing.T) {
	source := new(mockSource)
	source.On("ListConnectors", anyCtx, testWorkspace).Return([]domain.DataConnector{
		{Name: "aad", Kind: "AzureActiveDirectory", State: "Connected"},
	}, nil)
	source.On("ListAnalyticsRules", anyCtx, testWorkspace).Return(nil, errors.New("503 service unavailable"))
	source.On("ListAutomationRules", anyCtx, testWorkspace).Return([]domain.AutomationRule{
		{DisplayName: "Assign owner", State: "Disabled"},
	}, nil)
	source.On("ListIncidents", anyCtx, testWorkspace, anyTime).Return([]domain.Incident{}, nil)
	source.On("GetWorkspace", anyCtx, testWorkspace).Return(&domain.WorkspaceInfo{
		Name: "sentinel-ws", ProvisioningState: "Succeeded", RetentionInDays: ptr(90),
	}, nil)

	checks, err := DefaultRegistry().Build(source, DefaultSettings())
	require.NoError(t, err)

	report, err := NewRunner(checks...).Run(context.Background(), testWorkspace)
	require.NoError(t, err)

	assert.Equal(t, []string{"aad", "Assign owner", "sentinel-ws"}, names(report.Findings()))
	assert.Equal(t, []domain.CategoryCount{
		{Category: domain.CategoryDataConnectors, Count: 1},
		{Category: domain.CategoryAutomation, Count: 1},
		{Category: domain.CategoryWorkspaceHealth, Count: 1},
	}, report.CategoryCounts())
	require.Len(t, report.Issues(), 1)
	assert.Equal(t, IssueDisabled, report.Issues()[0].Issue)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "analytics_rules", report.Failures[0].Check)
	source.AssertExpectations(t)
}
