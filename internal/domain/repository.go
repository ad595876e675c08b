package domain

import (
	"context"
	"time"
)

// interface for the upstream analytics provider
type AnalyticsProvider interface {
	// ListProjects returns every client account visible to the configured user.
	ListProjects(ctx context.Context) ([]Project, error)

	// GetProfile resolves the per-network configuration of one project.
	GetProfile(ctx context.Context, blogID int) (*ProjectProfile, error)

	// Fetch issues one metric request. Transport and HTTP failures are folded
	// into the returned envelope, never into an error.
	Fetch(ctx context.Context, blogID int, network Network, spec MetricSpec, from, to time.Time) *RawResponse
}

// interface for narrative text generation
type NarrativeClient interface {
	Generate(ctx context.Context, bundle *NetworkBundle) (string, error)
}
