package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrEmptyReport is returned by reporters when no check produced a finding.
var ErrEmptyReport = errors.New("nothing to report: no findings were produced")

// CheckFailure records a check whose data source call failed during the run.
type CheckFailure struct {
	Check    string
	Category string
	Error    string
}

// CategoryCount is the number of findings in a category.
type CategoryCount struct {
	Category string
	Count    int
}

// AuditReport accumulates findings for a single run. Findings are kept in insertion
// order and are never modified once appended.
type AuditReport struct {
	ID         string
	Workspace  Workspace
	StartedAt  time.Time
	FinishedAt time.Time
	Failures   []CheckFailure

	findings []Finding
}

func NewAuditReport(ws Workspace) *AuditReport {
	return &AuditReport{
		ID:        uuid.NewString(),
		Workspace: ws,
		StartedAt: time.Now().UTC(),
	}
}

// Append adds findings after the ones already recorded.
func (r *AuditReport) Append(findings ...Finding) {
	for _, f := range findings {
		r.findings = append(r.findings, f.clone())
	}
}

func (r *AuditReport) Len() int {
	return len(r.findings)
}

func (r *AuditReport) Empty() bool {
	return len(r.findings) == 0
}

// Findings returns a copy of all findings in insertion order.
func (r *AuditReport) Findings() []Finding {
	out := make([]Finding, 0, len(r.findings))
	for _, f := range r.findings {
		out = append(out, f.clone())
	}
	return out
}

// CategoryCounts groups findings by category. Categories are listed in the order they
// were first seen.
func (r *AuditReport) CategoryCounts() []CategoryCount {
	var counts []CategoryCount
	index := map[string]int{}
	for _, f := range r.findings {
		i, ok := index[f.Category]
		if !ok {
			i = len(counts)
			index[f.Category] = i
			counts = append(counts, CategoryCount{Category: f.Category})
		}
		counts[i].Count++
	}
	return counts
}

// Issues returns every finding whose issue is not "OK".
func (r *AuditReport) Issues() []Finding {
	var issues []Finding
	for _, f := range r.findings {
		if f.Flagged() {
			issues = append(issues, f.clone())
		}
	}
	return issues
}
