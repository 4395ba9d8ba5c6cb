package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/de-tools/sentinel-audit/pkg/models/api"
	"github.com/de-tools/sentinel-audit/pkg/models/domain"
	"github.com/de-tools/sentinel-audit/pkg/services/audit"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSource struct {
	mock.Mock
}

func (m *mockSource) ListConnectors(ctx context.Context, ws domain.Workspace) ([]domain.DataConnector, error) {
	args := m.Called(ctx, ws)
	return args.Get(0).([]domain.DataConnector), args.Error(1)
}

func (m *mockSource) ListAnalyticsRules(ctx context.Context, ws domain.Workspace) ([]domain.AnalyticsRule, error) {
	args := m.Called(ctx, ws)
	return args.Get(0).([]domain.AnalyticsRule), args.Error(1)
}

func (m *mockSource) ListAutomationRules(ctx context.Context, ws domain.Workspace) ([]domain.AutomationRule, error) {
	args := m.Called(ctx, ws)
	return args.Get(0).([]domain.AutomationRule), args.Error(1)
}

func (m *mockSource) ListIncidents(ctx context.Context, ws domain.Workspace, since time.Time) ([]domain.Incident, error) {
	args := m.Called(ctx, ws, since)
	return args.Get(0).([]domain.Incident), args.Error(1)
}

func (m *mockSource) GetWorkspace(ctx context.Context, ws domain.Workspace) (*domain.WorkspaceInfo, error) {
	args := m.Called(ctx, ws)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkspaceInfo), args.Error(1)
}

func TestWebAPI_Endpoints(t *testing.T) {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	ws := domain.Workspace{SubscriptionID: "sub", ResourceGroup: "rg", Name: "sentinel-ws"}
	retention := 14

	source := new(mockSource)
	source.On("GetWorkspace", mock.Anything, ws).
		Return(&domain.WorkspaceInfo{Name: "sentinel-ws", ProvisioningState: "Succeeded", RetentionInDays: &retention}, nil)

	router := ConfigureRouter(Config{
		Dependencies: Dependencies{
			Source:    source,
			Settings:  audit.DefaultSettings(),
			Workspace: ws,
			Logger:    logger,
		},
	})
	testServer := httptest.NewServer(router)
	defer testServer.Close()

	tests := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
		expected       interface{}
		parseResponse  func([]byte) (interface{}, error)
	}{
		{
			name:           "ListChecks",
			method:         http.MethodGet,
			path:           "/api/v1/checks",
			expectedStatus: http.StatusOK,
			expected: []api.Check{
				{Name: "data_connectors", Category: domain.CategoryDataConnectors},
				{Name: "analytics_rules", Category: domain.CategoryAnalyticsRules},
				{Name: "automation_rules", Category: domain.CategoryAutomation},
				{Name: "incidents", Category: domain.CategoryIncidentAnalysis},
				{Name: "workspace_health", Category: domain.CategoryWorkspaceHealth},
			},
			parseResponse: unmarshalResponse[[]api.Check](),
		},
		{
			name:           "RunAudit_WorkspaceHealth",
			method:         http.MethodPost,
			path:           "/api/v1/audits?only=workspace_health",
			expectedStatus: http.StatusOK,
			expected: []api.Finding{{
				Category: domain.CategoryWorkspaceHealth,
				Name:     "sentinel-ws",
				Attributes: []api.Attribute{
					{Key: "Status", Value: "Succeeded"},
					{Key: "Retention Days", Value: float64(14)},
					{Key: "Daily Cap GB", Value: "Unlimited"},
				},
				Issue: "Check retention",
			}},
			parseResponse: func(data []byte) (interface{}, error) {
				var report api.AuditReport
				err := json.Unmarshal(data, &report)
				return report.Issues, err
			},
		},
		{
			name:           "RunAudit_GetNotAllowed",
			method:         http.MethodGet,
			path:           "/api/v1/audits",
			expectedStatus: http.StatusMethodNotAllowed,
			expected:       "",
			parseResponse: func(data []byte) (interface{}, error) {
				return string(data), nil
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req, err := http.NewRequest(tc.method, testServer.URL+tc.path, nil)
			require.NoError(t, err)

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err, "Failed to send request")
			defer resp.Body.Close()

			assert.Equal(t, tc.expectedStatus, resp.StatusCode, "Status code mismatch")

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err, "Failed to read response body")

			actual, err := tc.parseResponse(body)
			require.NoError(t, err, "Failed to parse response")

			assert.Equal(t, tc.expected, actual)
		})
	}
}

func unmarshalResponse[T any]() func([]byte) (interface{}, error) {
	return func(data []byte) (interface{}, error) {
		var response T
		err := json.Unmarshal(data, &response)
		return response, err
	}
}
