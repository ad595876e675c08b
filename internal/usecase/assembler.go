package usecase

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"insightgo/internal/domain"
)

var networkTitles = map[domain.Network]string{
	domain.NetworkInstagram:    "Instagram",
	domain.NetworkLinkedIn:     "LinkedIn",
	domain.NetworkFacebook:     "Facebook",
	domain.NetworkYouTube:      "YouTube",
	domain.NetworkWebAnalytics: "Web Analytics",
}

// Assembler combines per-network metric bundles into one self-contained HTML
// document of sections, tables and narrative blocks.
type Assembler struct {
	tmpl *template.Template
}

func NewAssembler() *Assembler {
	return &Assembler{
		tmpl: template.Must(template.New("report").Parse(reportTemplate)),
	}
}

type reportView struct {
	ProjectName string
	GeneratedAt string
	Period      string
	Sections    []sectionView
}

type sectionView struct {
	Title       string
	Handle      string
	Unavailable bool
	Metrics     []metricRow
	Breakdowns  []breakdownView
	Narrative   string
}

type metricRow struct {
	Label    string
	Current  string
	Previous string
	Change   string
}

type breakdownView struct {
	Label   string
	Entries []entryRow
}

type entryRow struct {
	Category string
	Value    string
}

// Assemble emits one section per configured network with data, in the fixed
// configuration order. A missing bundle produces an explicit "data
// unavailable" section rather than a silently dropped one.
func (a *Assembler) Assemble(
	projectName string,
	availability map[domain.Network]domain.NetworkAvailability,
	bundles map[domain.Network]*domain.NetworkBundle,
	narratives map[domain.Network]string,
	generatedAt time.Time,
) (*domain.ReportDocument, error) {
	view := reportView{
		ProjectName: projectName,
		GeneratedAt: generatedAt.Format("2006-01-02 15:04"),
	}

	order := append(append([]domain.Network{}, domain.SocialNetworks...), domain.NetworkWebAnalytics)
	for _, network := range order {
		av, ok := availability[network]
		if !ok || !av.Configured || !av.HasData {
			continue
		}

		section := sectionView{
			Title:  networkTitles[network],
			Handle: av.Handle,
		}

		bundle := bundles[network]
		if bundle == nil {
			section.Unavailable = true
			view.Sections = append(view.Sections, section)
			continue
		}

		if view.Period == "" {
			view.Period = fmt.Sprintf("%s — %s",
				bundle.From.Format("2006-01-02"), bundle.To.Format("2006-01-02"))
		}

		for _, metric := range bundle.Metrics {
			section.Metrics = append(section.Metrics, metricRow{
				Label:    metric.Label,
				Current:  formatValue(metric.Value()),
				Previous: formatValue(metric.PreviousValue()),
				Change:   fmt.Sprintf("%+.1f%%", metric.Change()),
			})
		}

		for _, breakdown := range bundle.Breakdowns {
			bd := breakdownView{Label: breakdown.Label}
			for _, entry := range breakdown.Entries {
				bd.Entries = append(bd.Entries, entryRow{
					Category: entry.Category,
					Value:    formatValue(entry.Value),
				})
			}
			section.Breakdowns = append(section.Breakdowns, bd)
		}

		section.Narrative = narratives[network]

		view.Sections = append(view.Sections, section)
	}

	var buf bytes.Buffer
	if err := a.tmpl.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	return &domain.ReportDocument{
		ProjectName: projectName,
		GeneratedAt: generatedAt,
		Filename:    reportFilename(projectName, generatedAt),
		HTML:        buf.Bytes(),
	}, nil
}

func reportFilename(projectName string, generatedAt time.Time) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, projectName)
	if name == "" {
		name = "report"
	}
	return fmt.Sprintf("%s_report_%s.html", name, generatedAt.Format("20060102_150405"))
}

func formatValue(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}

const reportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.ProjectName}} - Digital Ecosystem Report</title>
<style>
body { font-family: Helvetica, Arial, sans-serif; margin: 2rem auto; max-width: 900px; color: #212529; }
h1 { border-bottom: 3px solid #F8E964; padding-bottom: .5rem; }
h2 { margin-top: 2.5rem; border-left: 4px solid #F8E964; padding-left: .75rem; }
table { border-collapse: collapse; width: 100%; margin: 1rem 0; }
th, td { border: 1px solid #dee2e6; padding: .5rem .75rem; text-align: left; }
th { background: #f8f9fa; }
.meta { color: #6c757d; font-size: .9rem; }
.unavailable { background: #fff3cd; border: 1px solid #ffeeba; padding: 1rem; border-radius: 6px; }
.narrative { background: #f8f9fa; border-radius: 6px; padding: 1rem; white-space: pre-wrap; }
</style>
</head>
<body>
<h1>{{.ProjectName}} — Digital Ecosystem Report</h1>
<p class="meta">Generated {{.GeneratedAt}}{{if .Period}} · Period {{.Period}}{{end}}</p>
{{range .Sections}}
<h2>{{.Title}}{{if .Handle}} <small class="meta">{{.Handle}}</small>{{end}}</h2>
{{if .Unavailable}}
<div class="unavailable">Data unavailable for this network in the selected period.</div>
{{else}}
<table>
<tr><th>Metric</th><th>Current period</th><th>Previous period</th><th>Change</th></tr>
{{range .Metrics}}<tr><td>{{.Label}}</td><td>{{.Current}}</td><td>{{.Previous}}</td><td>{{.Change}}</td></tr>
{{end}}</table>
{{range .Breakdowns}}
<h3>{{.Label}}</h3>
<table>
<tr><th>Category</th><th>Value</th></tr>
{{range .Entries}}<tr><td>{{.Category}}</td><td>{{.Value}}</td></tr>
{{end}}</table>
{{end}}
{{if .Narrative}}<div class="narrative">{{.Narrative}}</div>{{end}}
{{end}}
{{end}}
<h2>General Conclusions and Next Actions</h2>
<p>Review follower growth, engagement rate and organic traffic across every
platform weekly, and adjust the editorial calendar to replicate the formats
and topics behind the best performing posts.</p>
</body>
</html>
`
