package usecase

import (
	"strings"
	"testing"
	"time"

	"insightgo/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBundle(network domain.Network) *domain.NetworkBundle {
	return &domain.NetworkBundle{
		Network: network,
		From:    day(2025, 7, 1),
		To:      day(2025, 7, 31),
		Metrics: []domain.MetricResult{
			{
				Name:      "followers",
				Label:     "Followers",
				Aggregate: domain.AggregateLast,
				Comparison: domain.PeriodComparison{
					Current:     domain.PeriodMetrics{FinalValue: 120},
					Previous:    domain.PeriodMetrics{FinalValue: 100},
					FinalChange: 20,
				},
			},
		},
		Breakdowns: []domain.Breakdown{
			{
				Name:  "country",
				Label: "Followers by country",
				Entries: []domain.DistributionEntry{
					{Category: "es", Value: 80},
					{Category: "ar", Value: 40},
				},
			},
		},
	}
}

func TestAssembleEmitsSectionsInConfigurationOrder(t *testing.T) {
	assembler := NewAssembler()

	availability := map[domain.Network]domain.NetworkAvailability{
		domain.NetworkInstagram: {Network: domain.NetworkInstagram, Configured: true, HasData: true, Handle: "@acme"},
		domain.NetworkFacebook:  {Network: domain.NetworkFacebook, Configured: true, HasData: true},
	}
	bundles := map[domain.Network]*domain.NetworkBundle{
		domain.NetworkInstagram: sampleBundle(domain.NetworkInstagram),
		domain.NetworkFacebook:  nil,
	}
	narratives := map[domain.Network]string{
		domain.NetworkInstagram: "A strong month for the account.",
	}

	doc, err := assembler.Assemble("Acme", availability, bundles, narratives, day(2025, 8, 1))
	require.NoError(t, err)

	html := string(doc.HTML)

	igPos := strings.Index(html, "Instagram")
	fbPos := strings.Index(html, "Facebook")
	require.Greater(t, igPos, -1)
	require.Greater(t, fbPos, -1)
	assert.Less(t, igPos, fbPos)

	assert.Contains(t, html, "Followers")
	assert.Contains(t, html, "+20.0%")
	assert.Contains(t, html, "@acme")
	assert.Contains(t, html, "Followers by country")
	assert.Contains(t, html, "A strong month for the account.")
	assert.Contains(t, html, "Data unavailable for this network in the selected period.")
	assert.Contains(t, html, "General Conclusions and Next Actions")
}

func TestAssembleSkipsUnavailableNetworks(t *testing.T) {
	assembler := NewAssembler()

	availability := map[domain.Network]domain.NetworkAvailability{
		domain.NetworkInstagram: {Network: domain.NetworkInstagram, Configured: true, HasData: false},
		domain.NetworkYouTube:   {Network: domain.NetworkYouTube, Configured: true, HasData: true},
	}
	bundles := map[domain.Network]*domain.NetworkBundle{
		domain.NetworkYouTube: sampleBundle(domain.NetworkYouTube),
	}

	doc, err := assembler.Assemble("Acme", availability, bundles, nil, day(2025, 8, 1))
	require.NoError(t, err)

	html := string(doc.HTML)
	assert.NotContains(t, html, "<h2>Instagram")
	assert.Contains(t, html, "YouTube")
}

func TestAssembleEscapesNarrativeMarkup(t *testing.T) {
	assembler := NewAssembler()

	availability := map[domain.Network]domain.NetworkAvailability{
		domain.NetworkInstagram: {Network: domain.NetworkInstagram, Configured: true, HasData: true},
	}
	bundles := map[domain.Network]*domain.NetworkBundle{
		domain.NetworkInstagram: sampleBundle(domain.NetworkInstagram),
	}
	narratives := map[domain.Network]string{
		domain.NetworkInstagram: `<script>alert("x")</script>`,
	}

	doc, err := assembler.Assemble("Acme", availability, bundles, narratives, day(2025, 8, 1))
	require.NoError(t, err)

	assert.NotContains(t, string(doc.HTML), "<script>")
}

func TestReportFilename(t *testing.T) {
	ts := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "Acme_report_20250801_120000.html", reportFilename("Acme", ts))
	assert.Equal(t, "Caf__Blue_23__report_20250801_120000.html", reportFilename("Café Blue 23!", ts))
	assert.Equal(t, "report_report_20250801_120000.html", reportFilename("", ts))
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "120", formatValue(120))
	assert.Equal(t, "3.5", formatValue(3.5))
}
