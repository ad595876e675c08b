package usecase

import (
	"context"
	"time"

	"insightgo/internal/domain"
	"insightgo/pkg/logger"
	"insightgo/pkg/metrics"
)

// AvailabilityService decides which report sections apply to a project: a
// network must be configured on the profile and answer a data probe.
type AvailabilityService struct {
	provider domain.AnalyticsProvider
	logger   *logger.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewAvailabilityService(provider domain.AnalyticsProvider, logger *logger.Logger, metrics *metrics.Metrics) *AvailabilityService {
	return &AvailabilityService{
		provider: provider,
		logger:   logger,
		metrics:  metrics,
		now:      time.Now,
	}
}

// LastFullMonth returns the bounds of the last fully completed calendar month
// relative to now. January rolls back into December of the prior year.
func LastFullMonth(now time.Time) (time.Time, time.Time) {
	firstOfCurrent := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := firstOfCurrent.AddDate(0, 0, -1)
	start := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, end
}

// Resolve maps each configured network to its availability. Networks without a
// profile identifier are omitted entirely. Web analytics is a site-level
// integration and is always included regardless of profile configuration.
// A nil profile resolves to an empty mapping: no networks available.
func (s *AvailabilityService) Resolve(ctx context.Context, profile *domain.ProjectProfile) map[domain.Network]domain.NetworkAvailability {
	availability := make(map[domain.Network]domain.NetworkAvailability)
	if profile == nil {
		return availability
	}

	log := s.logger.WithContext(ctx)

	for _, network := range domain.SocialNetworks {
		identifier := profile.Identifier(network)
		if identifier == "" {
			continue
		}

		hasData := s.probe(ctx, profile.BlogID, network)

		availability[network] = domain.NetworkAvailability{
			Network:    network,
			Configured: true,
			HasData:    hasData,
			Handle:     profile.DisplayName(network),
		}

		log.WithFields(map[string]any{
			"network":  network,
			"blog_id":  profile.BlogID,
			"has_data": hasData,
		}).Debug("Resolved network availability")
	}

	availability[domain.NetworkWebAnalytics] = domain.NetworkAvailability{
		Network:    domain.NetworkWebAnalytics,
		Configured: true,
		HasData:    true,
	}

	return availability
}

// probe issues one bounded request for the network's default metric over the
// last full calendar month. Any failure resolves to false, never an error.
func (s *AvailabilityService) probe(ctx context.Context, blogID int, network domain.Network) bool {
	catalog, ok := domain.CatalogFor(network)
	if !ok || catalog.ProbeMetric == "" {
		s.metrics.RecordProbe(string(network), "skipped")
		return false
	}

	from, to := LastFullMonth(s.now())
	spec := domain.MetricSpec{
		Name:     "probe",
		Metric:   catalog.ProbeMetric,
		Endpoint: domain.EndpointTimelines,
		Shape:    domain.ShapeTimeline,
		Subject:  "account",
	}

	series := NormalizeTimeseries(s.provider.Fetch(ctx, blogID, network, spec, from, to), spec.Shape)
	if len(series) == 0 {
		s.metrics.RecordProbe(string(network), "empty")
		return false
	}

	for _, point := range series {
		if point.Value >= 0 {
			s.metrics.RecordProbe(string(network), "has_data")
			return true
		}
	}

	s.metrics.RecordProbe(string(network), "empty")
	return false
}
