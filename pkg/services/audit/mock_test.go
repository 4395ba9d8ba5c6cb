package audit

import (
	"context"
	"time"

	"github.com/de-tools/sentinel-audit/pkg/models/domain"
	"github.com/stretchr/testify/mock"
)

type mockSource struct{ mock.Mock }

func (m *mockSource) ListConnectors(ctx context.Context, ws domain.Workspace) ([]domain.DataConnector, error) {
	args := m.Called(ctx, ws)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DataConnector), args.Error(1)
}

func (m *mockSource) ListAnalyticsRules(ctx context.Context, ws domain.Workspace) ([]domain.AnalyticsRule, error) {
	args := m.Called(ctx, ws)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AnalyticsRule), args.Error(1)
}

func (m *mockSource) ListAutomationRules(ctx context.Context, ws domain.Workspace) ([]domain.AutomationRule, error) {
	args := m.Called(ctx, ws)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AutomationRule), args.Error(1)
}

func (m *mockSource) ListIncidents(ctx context.Context, ws domain.Workspace, since time.Time) ([]domain.Incident, error) {
	args := m.Called(ctx, ws, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Incident), args.Error(1)
}

func (m *mockSource) GetWorkspace(ctx context.Context, ws domain.Workspace) (*domain.WorkspaceInfo, error) {
	args := m.Called(ctx, ws)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkspaceInfo), args.Error(1)
}

type stubCheck struct {
	name     string
	category string
	findings []domain.Finding
	err      error
	calls    int
}

func (s *stubCheck) Name() string     { return s.name }
func (s *stubCheck) Category() string { return s.category }

func (s *stubCheck) Run(_ context.Context, _ domain.Workspace) ([]domain.Finding, error) {
	s.calls++
	return s.findings, s.err
}

func ptr[T any](v T) *T {
	return &v
}
