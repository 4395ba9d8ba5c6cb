package adapters

import (
	"github.com/de-tools/sentinel-audit/pkg/models/api"
	"github.com/de-tools/sentinel-audit/pkg/models/domain"
	"github.com/de-tools/sentinel-audit/pkg/services/audit"
)

func MapWorkspaceDomainToApi(ws domain.Workspace) api.Workspace {
	return api.Workspace{
		SubscriptionID: ws.SubscriptionID,
		ResourceGroup:  ws.ResourceGroup,
		Name:           ws.Name,
	}
}

func MapCheckDomainToApi(c audit.Check) api.Check {
	return api.Check{
		Name:     c.Name(),
		Category: c.Category(),
	}
}

func MapFindingDomainToApi(f domain.Finding) api.Finding {
	res := api.Finding{
		Category:   f.Category,
		Name:       f.Name,
		Attributes: make([]api.Attribute, 0, len(f.Attributes)),
		Issue:      f.Issue,
	}
	for _, attr := range f.Attributes {
		res.Attributes = append(res.Attributes, api.Attribute{Key: attr.Key, Value: attr.Value})
	}
	return res
}

func MapFindingsDomainToApi(findings []domain.Finding) []api.Finding {
	res := make([]api.Finding, 0, len(findings))
	for _, f := range findings {
		res = append(res, MapFindingDomainToApi(f))
	}
	return res
}

func MapAuditReportDomainToApi(r *domain.AuditReport) api.AuditReport {
	res := api.AuditReport{
		ID:         r.ID,
		Workspace:  MapWorkspaceDomainToApi(r.Workspace),
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		Empty:      r.Empty(),
		Categories: []api.CategoryCount{},
		Findings:   MapFindingsDomainToApi(r.Findings()),
		Issues:     MapFindingsDomainToApi(r.Issues()),
		Skipped:    make([]api.SkippedCheck, 0, len(r.Failures)),
	}
	for _, c := range r.CategoryCounts() {
		res.Categories = append(res.Categories, api.CategoryCount{Category: c.Category, Count: c.Count})
	}
	for _, f := range r.Failures {
		res.Skipped = append(res.Skipped, api.SkippedCheck{Check: f.Check, Category: f.Category, Error: f.Error})
	}
	return res
}
