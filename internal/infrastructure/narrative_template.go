package infrastructure

import (
	"context"
	"fmt"
	"strings"

	"insightgo/internal/domain"
	"insightgo/pkg/metrics"
)

var narrativeTitles = map[domain.Network]string{
	domain.NetworkInstagram:    "Instagram",
	domain.NetworkLinkedIn:     "LinkedIn",
	domain.NetworkFacebook:     "Facebook",
	domain.NetworkYouTube:      "YouTube",
	domain.NetworkWebAnalytics: "web analytics",
}

// TemplateNarrative produces a deterministic summary from the bundle metrics.
// It is the fallback behind the LLM client and must never fail.
type TemplateNarrative struct {
	metrics *metrics.Metrics
}

func NewTemplateNarrative(metrics *metrics.Metrics) *TemplateNarrative {
	return &TemplateNarrative{metrics: metrics}
}

func (t *TemplateNarrative) Generate(ctx context.Context, bundle *domain.NetworkBundle) (string, error) {
	title := narrativeTitles[bundle.Network]
	if title == "" {
		title = string(bundle.Network)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Performance summary for %s between %s and %s.",
		title, bundle.From.Format("2006-01-02"), bundle.To.Format("2006-01-02"))

	for _, metric := range bundle.Metrics {
		change := metric.Change()
		switch {
		case change > 0:
			fmt.Fprintf(&b, " %s grew %.1f%% to %s.", metric.Label, change, formatNarrativeValue(metric.Value()))
		case change < 0:
			fmt.Fprintf(&b, " %s declined %.1f%% to %s.", metric.Label, -change, formatNarrativeValue(metric.Value()))
		default:
			fmt.Fprintf(&b, " %s held steady at %s.", metric.Label, formatNarrativeValue(metric.Value()))
		}
	}

	for _, breakdown := range bundle.Breakdowns {
		if len(breakdown.Entries) == 0 {
			continue
		}
		top := breakdown.Entries[0]
		fmt.Fprintf(&b, " Leading %s segment: %s (%s).",
			strings.ToLower(breakdown.Label), top.Category, formatNarrativeValue(top.Value))
	}

	if t.metrics != nil {
		t.metrics.RecordNarrative("template", "success")
	}
	return b.String(), nil
}

func formatNarrativeValue(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}
