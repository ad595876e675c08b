package domain

import "time"

// PeriodMetrics is derived per request, never stored.
// Invariant: Net == Gained - Lost.
type PeriodMetrics struct {
	FinalValue float64 `json:"final_value"`
	TotalValue float64 `json:"total_value"`
	Gained     float64 `json:"gained"`
	Lost       float64 `json:"lost"`
	Net        float64 `json:"net"`
}

// PeriodComparison holds the current and previous period metrics plus the
// percentage deltas shown on every report page.
type PeriodComparison struct {
	Current      PeriodMetrics `json:"current"`
	Previous     PeriodMetrics `json:"previous"`
	FinalChange  float64       `json:"final_change_pct"`
	TotalChange  float64       `json:"total_change_pct"`
	GainedChange float64       `json:"gained_change_pct"`
	LostChange   float64       `json:"lost_change_pct"`
	NetChange    float64       `json:"net_change_pct"`
}

// MetricResult is one catalog metric resolved against both periods.
type MetricResult struct {
	Name       string            `json:"name"`
	Label      string            `json:"label"`
	Aggregate  Aggregate         `json:"aggregate"`
	Comparison PeriodComparison  `json:"comparison"`
	Series     []TimeSeriesPoint `json:"series,omitempty"`
}

// Value returns the headline number for the metric: the most recent point for
// last-value metrics, the period total otherwise.
func (m MetricResult) Value() float64 {
	if m.Aggregate == AggregateLast {
		return m.Comparison.Current.FinalValue
	}
	return m.Comparison.Current.TotalValue
}

// PreviousValue is the headline number of the prior period.
func (m MetricResult) PreviousValue() float64 {
	if m.Aggregate == AggregateLast {
		return m.Comparison.Previous.FinalValue
	}
	return m.Comparison.Previous.TotalValue
}

// Change is the headline percentage delta.
func (m MetricResult) Change() float64 {
	if m.Aggregate == AggregateLast {
		return m.Comparison.FinalChange
	}
	return m.Comparison.TotalChange
}

// Breakdown is one demographic or categorical distribution.
type Breakdown struct {
	Name    string              `json:"name"`
	Label   string              `json:"label"`
	Entries []DistributionEntry `json:"entries"`
}

// NetworkBundle is everything the pipeline resolved for one network and one
// date range. Recomputed on every date-range change.
type NetworkBundle struct {
	Network    Network        `json:"network"`
	From       time.Time      `json:"from"`
	To         time.Time      `json:"to"`
	Metrics    []MetricResult `json:"metrics"`
	Breakdowns []Breakdown    `json:"breakdowns,omitempty"`
}

// Metric returns the named metric result, if the bundle carries it.
func (b *NetworkBundle) Metric(name string) (MetricResult, bool) {
	for _, m := range b.Metrics {
		if m.Name == name {
			return m, true
		}
	}
	return MetricResult{}, false
}

// ReportDocument is the assembled self-contained output artifact.
type ReportDocument struct {
	ProjectName string    `json:"project_name"`
	GeneratedAt time.Time `json:"generated_at"`
	Filename    string    `json:"filename"`
	HTML        []byte    `json:"-"`
}
