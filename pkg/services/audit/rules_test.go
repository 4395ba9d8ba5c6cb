package audit

import (
	"testing"
	"time"

	"github.com/de-tools/sentinel-audit/pkg/models/domain"
	"github.com/stretchr/testify/assert"
)

func TestClassifyIncidentVolume_Boundary(t *testing.T) {
	settings := DefaultSettings()

	tests := []struct {
		count    int
		expected string
	}{
		{count: 0, expected: domain.IssueOK},
		{count: 100, expected: domain.IssueOK},
		{count: 101, expected: IssueHighVolume},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.expected, settings.ClassifyIncidentVolume(tc.count), "count %d", tc.count)
	}
}

func TestClassifyRetention_Boundary(t *testing.T) {
	settings := DefaultSettings()

	assert.Equal(t, domain.IssueOK, settings.ClassifyRetention(ptr(30)))
	assert.Equal(t, domain.IssueOK, settings.ClassifyRetention(ptr(90)))
	assert.Equal(t, IssueCheckRetention, settings.ClassifyRetention(ptr(29)))
	assert.Equal(t, IssueCheckRetention, settings.ClassifyRetention(nil))
}

func TestClassifyRetention_Override(t *testing.T) {
	settings := DefaultSettings()
	settings.MinRetentionDays = 90

	assert.Equal(t, IssueCheckRetention, settings.ClassifyRetention(ptr(30)))
}

func TestClassifyConnector(t *testing.T) {
	assert.Equal(t, domain.IssueOK, ClassifyConnector("Connected"))
	assert.Equal(t, IssueDisconnected, ClassifyConnector("Error"))
	assert.Equal(t, IssueDisconnected, ClassifyConnector(""))
}

func TestClassifyAnalyticsRule(t *testing.T) {
	assert.Equal(t, domain.IssueOK, ClassifyAnalyticsRule(ptr(true)))
	assert.Equal(t, IssueDisabled, ClassifyAnalyticsRule(ptr(false)))
	assert.Equal(t, IssueDisabled, ClassifyAnalyticsRule(nil))
}

func TestClassifyAutomationRule(t *testing.T) {
	assert.Equal(t, domain.IssueOK, ClassifyAutomationRule("Enabled"))
	assert.Equal(t, IssueDisabled, ClassifyAutomationRule("Disabled"))
	assert.Equal(t, IssueDisabled, ClassifyAutomationRule(""))
}

func TestSettings_Validate(t *testing.T) {
	assert.NoError(t, DefaultSettings().Validate())

	bad := DefaultSettings()
	bad.IncidentWindow = 0
	assert.Error(t, bad.Validate())

	bad = DefaultSettings()
	bad.IncidentVolumeThreshold = -1
	assert.Error(t, bad.Validate())

	bad = DefaultSettings()
	bad.MinRetentionDays = -5
	assert.Error(t, bad.Validate())
}

func TestSettings_PeriodLabel(t *testing.T) {
	tests := []struct {
		window   time.Duration
		expected string
	}{
		{window: 30 * 24 * time.Hour, expected: "Last 30 days"},
		{window: 7 * 24 * time.Hour, expected: "Last 7 days"},
		{window: 24 * time.Hour, expected: "Last 1 day"},
		{window: 36 * time.Hour, expected: "Last 36h0m0s"},
		{window: 12 * time.Hour, expected: "Last 12h0m0s"},
	}

	for _, tc := range tests {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, Settings{IncidentWindow: tc.window}.periodLabel())
		})
	}
}
