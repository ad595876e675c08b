package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"insightgo/internal/domain"
	"insightgo/pkg/logger"
	"insightgo/pkg/metrics"
)

// ErrNoData marks a bundle where every metric fetch failed upstream. The
// report still emits a section for the network, flagged as unavailable.
var ErrNoData = errors.New("no metric data available")

// PipelineService runs the generic fetch -> normalize -> compare pipeline for
// one network and date range, driven by the network's metric catalog.
type PipelineService struct {
	provider domain.AnalyticsProvider
	logger   *logger.Logger
	metrics  *metrics.Metrics
}

func NewPipelineService(provider domain.AnalyticsProvider, logger *logger.Logger, metrics *metrics.Metrics) *PipelineService {
	return &PipelineService{
		provider: provider,
		logger:   logger,
		metrics:  metrics,
	}
}

// PreviousWindow returns the immediately preceding window of identical length:
// inclusive end one day before the current start.
func PreviousWindow(from, to time.Time) (time.Time, time.Time) {
	days := int(to.Sub(from).Hours() / 24)
	prevTo := from.AddDate(0, 0, -1)
	prevFrom := prevTo.AddDate(0, 0, -days)
	return prevFrom, prevTo
}

// BuildBundle resolves every catalog metric and breakdown of a network for the
// given window plus the preceding one. Individual fetch failures degrade to
// zeros; only a network where every metric failed reports ErrNoData.
func (s *PipelineService) BuildBundle(ctx context.Context, blogID int, network domain.Network, from, to time.Time) (*domain.NetworkBundle, error) {
	catalog, ok := domain.CatalogFor(network)
	if !ok {
		return nil, fmt.Errorf("no metric catalog for network %q", network)
	}

	log := s.logger.WithContext(ctx)
	prevFrom, prevTo := PreviousWindow(from, to)

	bundle := &domain.NetworkBundle{
		Network: network,
		From:    from,
		To:      to,
	}

	anyData := false
	for _, spec := range catalog.Metrics {
		rawCurrent := s.provider.Fetch(ctx, blogID, network, spec, from, to)
		rawPrevious := s.provider.Fetch(ctx, blogID, network, spec, prevFrom, prevTo)

		if rawCurrent.OK() || rawPrevious.OK() {
			anyData = true
		}

		current := NormalizeTimeseries(rawCurrent, spec.Shape)
		previous := NormalizeTimeseries(rawPrevious, spec.Shape)

		var deltaCurrent, deltaPrevious []domain.TimeSeriesPoint
		if spec.DeltaMetric != "" {
			deltaSpec := spec
			deltaSpec.Metric = spec.DeltaMetric
			deltaCurrent = NormalizeTimeseries(s.provider.Fetch(ctx, blogID, network, deltaSpec, from, to), deltaSpec.Shape)
			deltaPrevious = NormalizeTimeseries(s.provider.Fetch(ctx, blogID, network, deltaSpec, prevFrom, prevTo), deltaSpec.Shape)
		}

		bundle.Metrics = append(bundle.Metrics, domain.MetricResult{
			Name:       spec.Name,
			Label:      spec.Label,
			Aggregate:  spec.Aggregate,
			Comparison: Compare(current, previous, deltaCurrent, deltaPrevious),
			Series:     current,
		})
	}

	for _, spec := range catalog.Breakdowns {
		raw := s.provider.Fetch(ctx, blogID, network, spec, from, to)
		if raw.OK() {
			anyData = true
		}
		entries := NormalizeDistribution(raw)
		if len(entries) == 0 {
			continue
		}
		bundle.Breakdowns = append(bundle.Breakdowns, domain.Breakdown{
			Name:    spec.Name,
			Label:   spec.Label,
			Entries: entries,
		})
	}

	if !anyData {
		log.WithFields(map[string]any{
			"network": network,
			"blog_id": blogID,
		}).Warn("All metric fetches failed for network")
		return nil, ErrNoData
	}

	log.WithFields(map[string]any{
		"network":    network,
		"blog_id":    blogID,
		"metrics":    len(bundle.Metrics),
		"breakdowns": len(bundle.Breakdowns),
	}).Info("Built network metric bundle")

	return bundle, nil
}
