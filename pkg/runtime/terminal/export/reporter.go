package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/de-tools/sentinel-audit/pkg/models/domain"
)

const (
	ColumnCategory = "Category"
	ColumnName     = "Name"
	ColumnIssue    = "Issue"
)

// FileName returns the report file name for the given run date.
func FileName(date time.Time) string {
	return fmt.Sprintf("SentinelAudit_%s.csv", date.Format("20060102"))
}

// Columns is the union of the fixed columns and every attribute key, in first-seen order.
func Columns(findings []domain.Finding) []string {
	columns := []string{ColumnCategory, ColumnName, ColumnIssue}
	seen := map[string]bool{ColumnCategory: true, ColumnName: true, ColumnIssue: true}
	for _, f := range findings {
		for _, key := range f.Attributes.Keys() {
			if !seen[key] {
				seen[key] = true
				columns = append(columns, key)
			}
		}
	}
	return columns
}

// WriteCSV writes one header row and one row per finding. Cells for columns a finding
// does not carry are left blank.
func WriteCSV(w io.Writer, findings []domain.Finding) error {
	columns := Columns(findings)
	cw := csv.NewWriter(w)

	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	row := make([]string, len(columns))
	for _, f := range findings {
		for i, col := range columns {
			switch col {
			case ColumnCategory:
				row[i] = f.Category
			case ColumnName:
				row[i] = f.Name
			case ColumnIssue:
				row[i] = f.Issue
			default:
				row[i] = f.Attributes.Text(col)
			}
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row for %s: %w", f.Name, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Reporter writes the tabular report into a directory.
type Reporter struct {
	dir string
	now func() time.Time
}

func NewReporter(dir string) *Reporter {
	if dir == "" {
		dir = "."
	}
	return &Reporter{dir: dir, now: time.Now}
}

// Export writes the report and returns the file path. An empty report writes nothing
// and returns domain.ErrEmptyReport. The file is renamed into place only once fully
// written.
func (r *Reporter) Export(report *domain.AuditReport) (string, error) {
	if report.Empty() {
		return "", domain.ErrEmptyReport
	}

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	date := report.StartedAt.Local()
	if report.StartedAt.IsZero() {
		date = r.now()
	}
	path := filepath.Join(r.dir, FileName(date))

	tmp, err := os.CreateTemp(r.dir, ".sentinel-audit-*.csv")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteCSV(tmp, report.Findings()); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return "", fmt.Errorf("failed to set report permissions: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to move report into place: %w", err)
	}
	return path, nil
}
