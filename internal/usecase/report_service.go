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

// ErrProfileUnavailable is the one user-visible failure: without a resolvable
// profile no report can be assembled at all.
var ErrProfileUnavailable = errors.New("project profile unavailable")

// ReportService orchestrates the per-request pipeline: resolve availability,
// build bundles, generate narratives, assemble the document.
type ReportService struct {
	provider     domain.AnalyticsProvider
	availability *AvailabilityService
	pipeline     *PipelineService
	narrative    domain.NarrativeClient
	assembler    *Assembler
	logger       *logger.Logger
	metrics      *metrics.Metrics
}

func NewReportService(
	provider domain.AnalyticsProvider,
	availability *AvailabilityService,
	pipeline *PipelineService,
	narrative domain.NarrativeClient,
	assembler *Assembler,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *ReportService {
	return &ReportService{
		provider:     provider,
		availability: availability,
		pipeline:     pipeline,
		narrative:    narrative,
		assembler:    assembler,
		logger:       logger,
		metrics:      metrics,
	}
}

// ListProjects returns the provider's client accounts.
func (s *ReportService) ListProjects(ctx context.Context) ([]domain.Project, error) {
	projects, err := s.provider.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// GetAvailability resolves the report sections applicable to a project.
func (s *ReportService) GetAvailability(ctx context.Context, blogID int) (*domain.ProjectProfile, map[domain.Network]domain.NetworkAvailability, error) {
	profile, err := s.provider.GetProfile(ctx, blogID)
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).WithField("blog_id", blogID).Error("Failed to resolve project profile")
		return nil, map[domain.Network]domain.NetworkAvailability{}, ErrProfileUnavailable
	}

	return profile, s.availability.Resolve(ctx, profile), nil
}

// GetNetworkBundle builds the metric bundle for one network and date range.
func (s *ReportService) GetNetworkBundle(ctx context.Context, blogID int, network domain.Network, from, to time.Time) (*domain.NetworkBundle, error) {
	return s.pipeline.BuildBundle(ctx, blogID, network, from, to)
}

// GenerateReport runs the full pipeline and assembles the downloadable
// document. Per-network failures degrade to "data unavailable" sections;
// narrative failures degrade inside the narrative client and never surface.
func (s *ReportService) GenerateReport(ctx context.Context, blogID int, from, to time.Time) (*domain.ReportDocument, error) {
	start := time.Now()
	s.metrics.IncReportsInProgress()
	defer s.metrics.DecReportsInProgress()

	log := s.logger.WithContext(ctx)

	profile, availability, err := s.GetAvailability(ctx, blogID)
	if err != nil {
		s.metrics.RecordReport("failed", time.Since(start))
		return nil, err
	}

	bundles := make(map[domain.Network]*domain.NetworkBundle)
	narratives := make(map[domain.Network]string)

	order := append(append([]domain.Network{}, domain.SocialNetworks...), domain.NetworkWebAnalytics)
	for _, network := range order {
		av, ok := availability[network]
		if !ok || !av.Configured || !av.HasData {
			continue
		}

		bundle, err := s.pipeline.BuildBundle(ctx, blogID, network, from, to)
		if err != nil {
			// Partial failure stays visible: the section is emitted with an
			// explicit unavailable marker.
			log.WithError(err).WithField("network", network).Warn("Metric bundle unavailable")
			s.metrics.RecordSection(string(network), "unavailable")
			bundles[network] = nil
			continue
		}

		bundles[network] = bundle
		s.metrics.RecordSection(string(network), "populated")

		if text, err := s.narrative.Generate(ctx, bundle); err == nil && text != "" {
			narratives[network] = text
		}
	}

	doc, err := s.assembler.Assemble(profile.Name, availability, bundles, narratives, time.Now())
	if err != nil {
		s.metrics.RecordReport("failed", time.Since(start))
		return nil, err
	}

	s.metrics.RecordReport("success", time.Since(start))

	log.WithFields(map[string]any{
		"blog_id":  blogID,
		"sections": len(bundles),
		"duration": time.Since(start),
		"filename": doc.Filename,
	}).Info("Report generated")

	return doc, nil
}
