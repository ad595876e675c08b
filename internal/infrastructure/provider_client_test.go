package infrastructure

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"insightgo/internal/domain"
	"insightgo/pkg/config"
	"insightgo/pkg/logger"
	"insightgo/pkg/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Shared across the package: prometheus collectors register once per process.
var testMetrics = metrics.New()

func testLogger() *logger.Logger {
	return logger.New("error")
}

func newTestClient(baseURL string) *ProviderClient {
	cfg := config.ProviderConfig{
		BaseURL:            baseURL,
		UserID:             7,
		UserToken:          "tok",
		Timezone:           "Europe/Madrid",
		RequestTimeout:     5 * time.Second,
		RateLimitPerSecond: 1000,
		RateLimitBurst:     100,
	}
	return NewProviderClient(cfg, NewTTLCache(time.Minute), NewTTLCache(time.Minute), testLogger(), testMetrics)
}

func window() (time.Time, time.Time) {
	return time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 7, 31, 23, 59, 59, 0, time.UTC)
}

func TestFetchTimelineRequest(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"data": []}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	from, to := window()
	spec := domain.MetricSpec{Metric: "followers", Endpoint: domain.EndpointTimelines, Subject: "account"}

	resp := client.Fetch(context.Background(), 42, domain.NetworkInstagram, spec, from, to)

	require.True(t, resp.OK())
	assert.Equal(t, "/v2/analytics/timelines", gotPath)
	assert.Equal(t, "2025-07-01T00:00:00+02:00", gotQuery["from"][0])
	assert.Equal(t, "2025-07-31T23:59:59+02:00", gotQuery["to"][0])
	assert.Equal(t, "followers", gotQuery["metric"][0])
	assert.Equal(t, "instagram", gotQuery["network"][0])
	assert.Equal(t, "account", gotQuery["subject"][0])
	assert.Equal(t, "Europe/Madrid", gotQuery["timezone"][0])
	assert.Equal(t, "7", gotQuery["userId"][0])
	assert.Equal(t, "42", gotQuery["blogId"][0])
	assert.Equal(t, "tok", gotQuery["userToken"][0])
}

func TestFetchDistributionOmitsOffset(t *testing.T) {
	var gotQuery map[string][]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"data": []}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	from, to := window()
	spec := domain.MetricSpec{Metric: "age", Endpoint: domain.EndpointDistribution, Subject: "account"}

	client.Fetch(context.Background(), 42, domain.NetworkInstagram, spec, from, to)

	assert.Equal(t, "2025-07-01T00:00:00", gotQuery["from"][0])
	assert.Equal(t, "2025-07-31T23:59:59", gotQuery["to"][0])
}

func TestFetchStatsEndpointsUseCompactDates(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	from, to := window()

	spec := domain.MetricSpec{Metric: "PageViews", Endpoint: domain.EndpointStatsTimeline}
	client.Fetch(context.Background(), 42, domain.NetworkWebAnalytics, spec, from, to)

	assert.Equal(t, "/stats/timeline/PageViews", gotPath)
	assert.Equal(t, "20250701", gotQuery["start"][0])
	assert.Equal(t, "20250731", gotQuery["end"][0])

	spec = domain.MetricSpec{Metric: "country", Endpoint: domain.EndpointStatsDistribution}
	client.Fetch(context.Background(), 42, domain.NetworkWebAnalytics, spec, from, to)

	assert.Equal(t, "/stats/distribution/country", gotPath)
	assert.Equal(t, "true", gotQuery["encode"][0])
}

func TestFetchCapturesHTTPErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "token expired", http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	from, to := window()
	spec := domain.MetricSpec{Metric: "followers", Endpoint: domain.EndpointTimelines}

	resp := client.Fetch(context.Background(), 42, domain.NetworkInstagram, spec, from, to)

	assert.False(t, resp.OK())
	assert.Equal(t, http.StatusUnauthorized, resp.Status)
	assert.Contains(t, resp.Error, "token expired")
	assert.Empty(t, resp.Data)
}

func TestFetchCapturesTransportErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := newTestClient(server.URL)
	from, to := window()
	spec := domain.MetricSpec{Metric: "followers", Endpoint: domain.EndpointTimelines}

	resp := client.Fetch(context.Background(), 42, domain.NetworkInstagram, spec, from, to)

	assert.False(t, resp.OK())
	assert.Equal(t, 0, resp.Status)
	assert.NotEmpty(t, resp.Error)
}

func TestFetchCachesByURL(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"data": []}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	from, to := window()
	spec := domain.MetricSpec{Metric: "followers", Endpoint: domain.EndpointTimelines}

	client.Fetch(context.Background(), 42, domain.NetworkInstagram, spec, from, to)
	client.Fetch(context.Background(), 42, domain.NetworkInstagram, spec, from, to)

	assert.Equal(t, 1, calls)

	// A different window is a different cache entry.
	client.Fetch(context.Background(), 42, domain.NetworkInstagram, spec, from.AddDate(0, -1, 0), to)
	assert.Equal(t, 2, calls)
}

func TestListProjects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/simpleProfiles", r.URL.Path)
		w.Write([]byte(`[
			{"id": 101, "label": "Acme", "url": "https://acme.example"},
			{"id": 102, "label": ""},
			{"id": 0, "label": "ghost"}
		]`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	projects, err := client.ListProjects(context.Background())
	require.NoError(t, err)

	require.Len(t, projects, 2)
	assert.Equal(t, domain.Project{BlogID: 101, Name: "Acme", URL: "https://acme.example"}, projects[0])
	assert.Equal(t, "Project 102", projects[1].Name)
}

func TestGetProfileCachesResult(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/admin/profile", r.URL.Path)
		assert.Equal(t, "false", r.URL.Query().Get("refreshBrandCache"))
		w.Write([]byte(`{"label": "Acme", "instagram": "acme", "facebook": "acmepage"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	profile, err := client.GetProfile(context.Background(), 42)
	require.NoError(t, err)

	assert.Equal(t, 42, profile.BlogID)
	assert.Equal(t, "Acme", profile.Name)
	assert.Equal(t, "acme", profile.InstagramHandle)
	assert.Equal(t, "acmepage", profile.FacebookPage)

	_, err = client.GetProfile(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestGetProfileFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.GetProfile(context.Background(), 42)
	assert.Error(t, err)
}
