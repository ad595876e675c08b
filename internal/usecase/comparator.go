package usecase

import (
	"insightgo/internal/domain"
)

// FinalValue returns the value of the most recent point by timestamp, or 0 for
// an empty series. Input order does not matter; among equal timestamps the
// later element wins.
func FinalValue(series []domain.TimeSeriesPoint) float64 {
	if len(series) == 0 {
		return 0
	}

	best := series[0]
	for _, point := range series[1:] {
		if !point.Timestamp.Before(best.Timestamp) {
			best = point
		}
	}
	return best.Value
}

// TotalValue sums all point values, or 0 for an empty series.
func TotalValue(series []domain.TimeSeriesPoint) float64 {
	var total float64
	for _, point := range series {
		total += point.Value
	}
	return total
}

// GainedLost partitions a delta series by sign: positive values sum into
// gained, absolute values of negatives into lost. Zero points count to neither.
func GainedLost(delta []domain.TimeSeriesPoint) (gained, lost float64) {
	for _, point := range delta {
		switch {
		case point.Value > 0:
			gained += point.Value
		case point.Value < 0:
			lost += -point.Value
		}
	}
	return gained, lost
}

// PercentageChange computes the period-over-period delta in percent. When the
// previous value is 0 the result is 100 for any positive current value and 0
// otherwise. Business policy shared by every report page; keep exact.
func PercentageChange(current, previous float64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return (current - previous) / previous * 100
}

// BuildPeriodMetrics derives the per-period numbers from a cumulative series
// and its optional day-over-day delta series.
func BuildPeriodMetrics(series, delta []domain.TimeSeriesPoint) domain.PeriodMetrics {
	gained, lost := GainedLost(delta)
	return domain.PeriodMetrics{
		FinalValue: FinalValue(series),
		TotalValue: TotalValue(series),
		Gained:     gained,
		Lost:       lost,
		Net:        gained - lost,
	}
}

// Compare builds the full current-vs-previous comparison for one metric. The
// comparator is date-arithmetic-free; callers fetch both windows.
func Compare(current, previous, deltaCurrent, deltaPrevious []domain.TimeSeriesPoint) domain.PeriodComparison {
	cur := BuildPeriodMetrics(current, deltaCurrent)
	prev := BuildPeriodMetrics(previous, deltaPrevious)

	return domain.PeriodComparison{
		Current:      cur,
		Previous:     prev,
		FinalChange:  PercentageChange(cur.FinalValue, prev.FinalValue),
		TotalChange:  PercentageChange(cur.TotalValue, prev.TotalValue),
		GainedChange: PercentageChange(cur.Gained, prev.Gained),
		LostChange:   PercentageChange(cur.Lost, prev.Lost),
		NetChange:    PercentageChange(cur.Net, prev.Net),
	}
}
