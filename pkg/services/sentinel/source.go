package sentinel

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/operationalinsights/armoperationalinsights"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/securityinsights/armsecurityinsights"
	"github.com/de-tools/sentinel-audit/pkg/models/domain"
	jsoniter "github.com/json-iterator/go"
)

type Options struct {
	SubscriptionID string
	TenantID       string
	// Credential selects the credential chain: "default" or "cli"
	Credential    string
	ClientOptions *arm.ClientOptions
}

// Source reads workspace state from the Sentinel (SecurityInsights) and Log Analytics
// management APIs of one subscription.
type Source struct {
	subscriptionID string
	connectors     *armsecurityinsights.DataConnectorsClient
	alertRules     *armsecurityinsights.AlertRulesClient
	automation     *armsecurityinsights.AutomationRulesClient
	incidents      *armsecurityinsights.IncidentsClient
	workspaces     *armoperationalinsights.WorkspacesClient
}

// Open resolves credentials and creates a Source.
func Open(opts Options) (*Source, error) {
	cred, err := NewCredential(opts.Credential, opts.TenantID)
	if err != nil {
		return nil, err
	}
	return NewSource(opts.SubscriptionID, cred, opts.ClientOptions)
}

func NewSource(subscriptionID string, cred azcore.TokenCredential, options *arm.ClientOptions) (*Source, error) {
	if subscriptionID == "" {
		return nil, fmt.Errorf("subscription ID cannot be empty")
	}

	insights, err := armsecurityinsights.NewClientFactory(subscriptionID, cred, options)
	if err != nil {
		return nil, fmt.Errorf("failed to create security insights client factory: %w", err)
	}

	logs, err := armoperationalinsights.NewClientFactory(subscriptionID, cred, options)
	if err != nil {
		return nil, fmt.Errorf("failed to create operational insights client factory: %w", err)
	}

	return &Source{
		subscriptionID: subscriptionID,
		connectors:     insights.NewDataConnectorsClient(),
		alertRules:     insights.NewAlertRulesClient(),
		automation:     insights.NewAutomationRulesClient(),
		incidents:      insights.NewIncidentsClient(),
		workspaces:     logs.NewWorkspacesClient(),
	}, nil
}

func (s *Source) ListConnectors(ctx context.Context, ws domain.Workspace) ([]domain.DataConnector, error) {
	if err := s.validate(ws); err != nil {
		return nil, err
	}
	return collect(ctx,
		s.connectors.NewListPager(ws.ResourceGroup, ws.Name, nil),
		parseConnector,
	)
}

func (s *Source) ListAnalyticsRules(ctx context.Context, ws domain.Workspace) ([]domain.AnalyticsRule, error) {
	if err := s.validate(ws); err != nil {
		return nil, err
	}
	return collect(ctx,
		s.alertRules.NewListPager(ws.ResourceGroup, ws.Name, nil),
		parseAnalyticsRule,
	)
}

func (s *Source) ListAutomationRules(ctx context.Context, ws domain.Workspace) ([]domain.AutomationRule, error) {
	if err := s.validate(ws); err != nil {
		return nil, err
	}
	return collect(ctx,
		s.automation.NewListPager(ws.ResourceGroup, ws.Name, nil),
		parseAutomationRule,
	)
}

// ListIncidents returns incidents created at or after since. The filter is applied
// server side.
func (s *Source) ListIncidents(ctx context.Context, ws domain.Workspace, since time.Time) ([]domain.Incident, error) {
	if err := s.validate(ws); err != nil {
		return nil, err
	}
	filter := fmt.Sprintf("properties/createdTimeUtc ge %s", since.UTC().Format(time.RFC3339))
	return collect(ctx,
		s.incidents.NewListPager(ws.ResourceGroup, ws.Name, &armsecurityinsights.IncidentsClientListOptions{
			Filter: to.Ptr(filter),
		}),
		parseIncident,
	)
}

func (s *Source) GetWorkspace(ctx context.Context, ws domain.Workspace) (*domain.WorkspaceInfo, error) {
	if err := s.validate(ws); err != nil {
		return nil, err
	}

	var raw *http.Response
	if _, err := s.workspaces.Get(runtime.WithCaptureResponse(ctx, &raw), ws.ResourceGroup, ws.Name, nil); err != nil {
		return nil, fmt.Errorf("failed to get workspace %s: %w", ws.Name, err)
	}

	body, err := payload(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to read workspace %s: %w", ws.Name, err)
	}
	info := parseWorkspace(jsoniter.Get(body))
	return &info, nil
}

func (s *Source) validate(ws domain.Workspace) error {
	if ws.SubscriptionID != "" && ws.SubscriptionID != s.subscriptionID {
		return fmt.Errorf("workspace subscription %s does not match client subscription %s", ws.SubscriptionID, s.subscriptionID)
	}
	if ws.ResourceGroup == "" || ws.Name == "" {
		return fmt.Errorf("resource group and workspace name are required")
	}
	return nil
}

// collect walks every page and parses the items of the raw "value" array. Kinds the
// SDK does not model decode to bare base types, so the typed page is not used.
func collect[P any, D any](
	ctx context.Context,
	pager *runtime.Pager[P],
	parse func(jsoniter.Any) D,
) ([]D, error) {
	var out []D
	for pager.More() {
		var raw *http.Response
		if _, err := pager.NextPage(runtime.WithCaptureResponse(ctx, &raw)); err != nil {
			return nil, err
		}

		body, err := payload(raw)
		if err != nil {
			return nil, err
		}
		values := jsoniter.Get(body, "value")
		if values.ValueType() != jsoniter.ArrayValue {
			continue
		}
		for i := 0; i < values.Size(); i++ {
			out = append(out, parse(values.Get(i)))
		}
	}
	return out, nil
}

func payload(resp *http.Response) ([]byte, error) {
	if resp == nil {
		return nil, fmt.Errorf("no response captured")
	}
	body, err := runtime.Payload(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}
