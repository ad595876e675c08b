package usecase

import (
	"context"
	"testing"
	"time"

	"insightgo/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLastFullMonth(t *testing.T) {
	from, to := LastFullMonth(day(2025, 8, 15))
	assert.Equal(t, day(2025, 7, 1), from)
	assert.Equal(t, day(2025, 7, 31), to)

	// January rolls back into December of the prior year
	from, to = LastFullMonth(day(2026, 1, 10))
	assert.Equal(t, day(2025, 12, 1), from)
	assert.Equal(t, day(2025, 12, 31), to)
}

func TestResolveNilProfile(t *testing.T) {
	svc := NewAvailabilityService(&fakeProvider{}, testLogger(), testMetrics)

	availability := svc.Resolve(context.Background(), nil)

	assert.Empty(t, availability)
}

func TestResolveConfiguredNetworkWithoutData(t *testing.T) {
	svc := NewAvailabilityService(&fakeProvider{}, testLogger(), testMetrics)
	svc.now = func() time.Time { return day(2025, 8, 15) }

	profile := &domain.ProjectProfile{
		BlogID:          1,
		InstagramHandle: "acme",
	}

	availability := svc.Resolve(context.Background(), profile)

	require.Contains(t, availability, domain.NetworkInstagram)
	assert.True(t, availability[domain.NetworkInstagram].Configured)
	assert.False(t, availability[domain.NetworkInstagram].HasData)
	assert.Equal(t, "@acme", availability[domain.NetworkInstagram].Handle)

	assert.NotContains(t, availability, domain.NetworkLinkedIn)
	assert.NotContains(t, availability, domain.NetworkFacebook)
	assert.NotContains(t, availability, domain.NetworkYouTube)
}

func TestResolveProbeFindsData(t *testing.T) {
	provider := &fakeProvider{
		responses: map[string]*domain.RawResponse{
			// Probe window is the last full month relative to the fixed clock.
			fetchKey("followers", day(2025, 7, 1)): rawOK(`{"data": [{"values": [
				{"dateTime": "2025-07-01T00:00:00", "value": 0}
			]}]}`),
		},
	}

	svc := NewAvailabilityService(provider, testLogger(), testMetrics)
	svc.now = func() time.Time { return day(2025, 8, 15) }

	profile := &domain.ProjectProfile{BlogID: 1, InstagramHandle: "acme"}

	availability := svc.Resolve(context.Background(), profile)

	assert.True(t, availability[domain.NetworkInstagram].HasData)
}

func TestResolveWebAnalyticsAlwaysIncluded(t *testing.T) {
	svc := NewAvailabilityService(&fakeProvider{}, testLogger(), testMetrics)
	svc.now = func() time.Time { return day(2025, 8, 15) }

	availability := svc.Resolve(context.Background(), &domain.ProjectProfile{BlogID: 1})

	require.Contains(t, availability, domain.NetworkWebAnalytics)
	assert.True(t, availability[domain.NetworkWebAnalytics].Configured)
	assert.True(t, availability[domain.NetworkWebAnalytics].HasData)
}
