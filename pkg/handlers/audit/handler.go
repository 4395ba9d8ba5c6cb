package audit

import (
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/de-tools/sentinel-audit/pkg/adapters"
	"github.com/de-tools/sentinel-audit/pkg/models/api"
	"github.com/de-tools/sentinel-audit/pkg/models/domain"
	"github.com/de-tools/sentinel-audit/pkg/runtime/terminal/export"
	"github.com/de-tools/sentinel-audit/pkg/services/audit"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const formatCSV = "csv"

type Handler struct {
	registry  audit.Registry
	source    audit.DataSource
	settings  audit.Settings
	workspace domain.Workspace

	// one audit at a time against the workspace
	mu sync.Mutex
}

func NewHandler(
	registry audit.Registry,
	source audit.DataSource,
	settings audit.Settings,
	workspace domain.Workspace,
) *Handler {
	return &Handler{
		registry:  registry,
		source:    source,
		settings:  settings,
		workspace: workspace,
	}
}

func (h *Handler) ListChecks(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	checks, err := h.registry.Build(h.source, h.settings)
	if err != nil {
		logger.Error().Err(err).Msg("failed to build checks")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	response := make([]api.Check, 0, len(checks))
	for _, c := range checks {
		response = append(response, adapters.MapCheckDomainToApi(c))
	}
	writeJSON(w, logger, response)
}

// RunAudit runs the checks against the configured workspace. Query parameters:
// only=name[,name] selects checks, format=csv returns the tabular report.
func (h *Handler) RunAudit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	only := parseList(r.URL.Query().Get("only"))
	format := r.URL.Query().Get("format")
	if format != "" && format != formatCSV && format != "json" {
		http.Error(w, fmt.Sprintf("unsupported format %q. Expected json or csv", format), http.StatusBadRequest)
		return
	}

	checks, err := h.registry.Build(h.source, h.settings, only...)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.mu.Lock()
	report, err := audit.NewRunner(checks...).Run(ctx, h.workspace)
	h.mu.Unlock()
	if err != nil {
		logger.Error().Err(err).Msg("audit run failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if format != formatCSV {
		writeJSON(w, logger, adapters.MapAuditReportDomainToApi(report))
		return
	}

	if report.Empty() {
		http.Error(w, domain.ErrEmptyReport.Error(), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", export.FileName(report.StartedAt.Local())))
	if err := export.WriteCSV(w, report.Findings()); err != nil {
		logger.Error().Err(err).Str("audit_id", report.ID).Msg("failed to write csv report")
	}
}

func writeJSON(w http.ResponseWriter, logger *zerolog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error().Err(err).Msg("failed to encode response")
	}
}

func parseList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
