package terminal

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/de-tools/sentinel-audit/pkg/models/domain"
	"github.com/fatih/color"
)

const bannerTmpl = `Starting Microsoft Sentinel audit
Workspace: {{.Name}}
Resource Group: {{.ResourceGroup}}
{{rule 60}}
`

const digestTmpl = `
AUDIT SUMMARY
{{rule 51}}
{{range .Counts}}{{.Category}}: {{.Count}} items
{{end}}{{if .Issues}}
{{warn (printf "ISSUES FOUND: %d" (len .Issues))}}
{{range .Issues}}  • {{.Name}}: {{.Issue}}
{{end}}{{else}}
{{ok "No issues found"}}
{{end}}{{template "skipped" .Failures}}`

const skippedTmpl = `{{define "skipped"}}{{if .}}
{{warn (printf "SKIPPED CHECKS: %d" (len .))}}
{{range .}}  • {{.Check}} ({{.Category}}): {{.Error}}
{{end}}{{end}}{{end}}`

// Reporter prints the banner and the audit digest to the console.
type Reporter struct {
	writer io.Writer
	banner *template.Template
	digest *template.Template
}

// NewReporter creates a console reporter. Colors are dropped when noColor is set.
func NewReporter(writer io.Writer, noColor bool) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}

	warn := color.New(color.FgYellow, color.Bold)
	ok := color.New(color.FgGreen)
	if noColor {
		warn.DisableColor()
		ok.DisableColor()
	}

	funcs := template.FuncMap{
		"warn": warn.Sprint,
		"ok":   ok.Sprint,
		"rule": func(n int) string { return strings.Repeat("=", n) },
	}

	return &Reporter{
		writer: writer,
		banner: template.Must(template.New("banner").Funcs(funcs).Parse(bannerTmpl)),
		digest: template.Must(template.New("digest").Funcs(funcs).Parse(digestTmpl + skippedTmpl)),
	}
}

func (c *Reporter) Banner(ws domain.Workspace) error {
	if err := c.banner.Execute(c.writer, ws); err != nil {
		return fmt.Errorf("failed to render banner: %w", err)
	}
	return nil
}

// Handle prints category counts followed by the flagged findings and skipped checks.
// An empty report only lists skipped checks and returns domain.ErrEmptyReport.
func (c *Reporter) Handle(report *domain.AuditReport) error {
	if report.Empty() {
		if err := c.digest.ExecuteTemplate(c.writer, "skipped", report.Failures); err != nil {
			return fmt.Errorf("failed to render skipped checks: %w", err)
		}
		return domain.ErrEmptyReport
	}

	data := struct {
		Counts   []domain.CategoryCount
		Issues   []domain.Finding
		Failures []domain.CheckFailure
	}{
		Counts:   report.CategoryCounts(),
		Issues:   report.Issues(),
		Failures: report.Failures,
	}

	if err := c.digest.Execute(c.writer, data); err != nil {
		return fmt.Errorf("failed to render digest: %w", err)
	}
	return nil
}
