package audit

import (
	"context"
	"errors"
	"time"

	"github.com/de-tools/sentinel-audit/pkg/models/domain"
	"github.com/rs/zerolog"
)

// Runner executes checks one at a time in a fixed order. A check whose data source
// fails is skipped; any other error aborts the run.
type Runner struct {
	checks []Check
}

func NewRunner(checks ...Check) *Runner {
	return &Runner{checks: checks}
}

// Run audits the workspace and returns the populated report. The report is owned by
// the caller once Run returns.
func (r *Runner) Run(ctx context.Context, ws domain.Workspace) (*domain.AuditReport, error) {
	report := domain.NewAuditReport(ws)
	logger := zerolog.Ctx(ctx).With().
		Str("audit_id", report.ID).
		Str("workspace", ws.Name).
		Logger()

	logger.Info().Int("checks", len(r.checks)).Msg("audit started")

	for _, check := range r.checks {
		if err := ctx.Err(); err != nil {
			return nil, &RunFailure{Check: check.Name(), Err: err}
		}

		res := execute(ctx, check, ws)
		checkLogger := logger.With().
			Str("check", res.Check).
			Dur("duration", res.Duration).
			Logger()

		if res.Failed() {
			var dsErr *DataSourceError
			if !errors.As(res.Err, &dsErr) {
				checkLogger.Error().Err(res.Err).Msg("check failed unexpectedly")
				return nil, &RunFailure{Check: res.Check, Err: res.Err}
			}
			checkLogger.Warn().Err(res.Err).Msg("check skipped")
			report.Failures = append(report.Failures, domain.CheckFailure{
				Check:    res.Check,
				Category: res.Category,
				Error:    res.Err.Error(),
			})
			continue
		}

		report.Append(res.Findings...)
		checkLogger.Info().Int("findings", len(res.Findings)).Msg("check completed")
	}

	report.FinishedAt = time.Now().UTC()
	logger.Info().
		Int("findings", report.Len()).
		Int("skipped", len(report.Failures)).
		Msg("audit finished")

	return report, nil
}

func execute(ctx context.Context, check Check, ws domain.Workspace) Result {
	start := time.Now()
	findings, err := check.Run(ctx, ws)
	res := Result{
		Check:    check.Name(),
		Category: check.Category(),
		Duration: time.Since(start),
	}
	if err != nil {
		res.Err = err
		return res
	}
	res.Findings = findings
	return res
}
