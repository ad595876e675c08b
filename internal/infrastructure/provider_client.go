package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"insightgo/internal/domain"
	"insightgo/pkg/config"
	"insightgo/pkg/logger"
	"insightgo/pkg/metrics"

	"golang.org/x/time/rate"
)

// Date encodings used by the provider: timeline and aggregation endpoints take
// ISO-8601 with a fixed UTC+2 offset, distribution endpoints take ISO-8601
// without offset, and the stats endpoints take compact YYYYMMDD.
const (
	isoPlainLayout = "2006-01-02T15:04:05"
	compactLayout  = "20060102"

	// Appended as a literal suffix after formatting; a "02" inside the layout
	// string would be interpreted as the day-of-month token.
	utcOffsetSuffix = "+02:00"
)

// implements domain.AnalyticsProvider against the Metricool-style HTTP API
type ProviderClient struct {
	client        *http.Client
	baseURL       string
	userID        int
	userToken     string
	timezone      string
	logger        *logger.Logger
	metrics       *metrics.Metrics
	rateLimiter   *rate.Limiter
	responseCache *TTLCache
	profileCache  *TTLCache
}

func NewProviderClient(cfg config.ProviderConfig, responseCache, profileCache *TTLCache, logger *logger.Logger, metrics *metrics.Metrics) *ProviderClient {
	return &ProviderClient{
		client: &http.Client{
			Timeout: cfg.RequestTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		baseURL:       cfg.BaseURL,
		userID:        cfg.UserID,
		userToken:     cfg.UserToken,
		timezone:      cfg.Timezone,
		logger:        logger,
		metrics:       metrics,
		rateLimiter:   rate.NewLimiter(rate.Limit(cfg.RateLimitPerSecond), cfg.RateLimitBurst),
		responseCache: responseCache,
		profileCache:  profileCache,
	}
}

// Fetch issues one metric request and folds every failure mode into the
// returned envelope. Responses are cached by URL for the configured TTL.
func (c *ProviderClient) Fetch(ctx context.Context, blogID int, network domain.Network, spec domain.MetricSpec, from, to time.Time) *domain.RawResponse {
	requestURL := c.buildMetricURL(blogID, network, spec, from, to)

	if cached, ok := c.responseCache.Get(requestURL); ok {
		c.metrics.RecordCacheLookup("response", "hit")
		return cached.(*domain.RawResponse)
	}
	c.metrics.RecordCacheLookup("response", "miss")

	response := c.get(ctx, spec.Endpoint, requestURL)
	c.responseCache.Set(requestURL, response)
	return response
}

// ListProjects fetches every client account visible to the configured user.
func (c *ProviderClient) ListProjects(ctx context.Context) ([]domain.Project, error) {
	params := url.Values{}
	params.Set("userId", strconv.Itoa(c.userID))
	params.Set("userToken", c.userToken)
	requestURL := fmt.Sprintf("%s/admin/simpleProfiles?%s", c.baseURL, params.Encode())

	response := c.get(ctx, "admin/simpleProfiles", requestURL)
	if !response.OK() {
		return nil, fmt.Errorf("project list request failed with status %d: %s", response.Status, response.Error)
	}

	var profiles []struct {
		ID    int    `json:"id"`
		Label string `json:"label"`
		URL   string `json:"url"`
	}
	if err := json.Unmarshal(response.Data, &profiles); err != nil {
		return nil, fmt.Errorf("failed to parse project list: %w", err)
	}

	projects := make([]domain.Project, 0, len(profiles))
	for _, profile := range profiles {
		if profile.ID == 0 {
			continue
		}
		name := profile.Label
		if name == "" {
			name = fmt.Sprintf("Project %d", profile.ID)
		}
		projects = append(projects, domain.Project{
			BlogID: profile.ID,
			Name:   name,
			URL:    profile.URL,
		})
	}

	return projects, nil
}

// GetProfile resolves and caches the per-network configuration of a project.
func (c *ProviderClient) GetProfile(ctx context.Context, blogID int) (*domain.ProjectProfile, error) {
	cacheKey := strconv.Itoa(blogID)
	if cached, ok := c.profileCache.Get(cacheKey); ok {
		c.metrics.RecordCacheLookup("profile", "hit")
		return cached.(*domain.ProjectProfile), nil
	}
	c.metrics.RecordCacheLookup("profile", "miss")

	params := url.Values{}
	params.Set("refreshBrandCache", "false")
	params.Set("userId", strconv.Itoa(c.userID))
	params.Set("blogId", strconv.Itoa(blogID))
	params.Set("userToken", c.userToken)
	requestURL := fmt.Sprintf("%s/admin/profile?%s", c.baseURL, params.Encode())

	response := c.get(ctx, "admin/profile", requestURL)
	if !response.OK() {
		return nil, fmt.Errorf("profile request failed with status %d: %s", response.Status, response.Error)
	}

	var profile domain.ProjectProfile
	if err := json.Unmarshal(response.Data, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse project profile: %w", err)
	}
	profile.BlogID = blogID

	c.profileCache.Set(cacheKey, &profile)
	return &profile, nil
}

func (c *ProviderClient) buildMetricURL(blogID int, network domain.Network, spec domain.MetricSpec, from, to time.Time) string {
	params := url.Values{}
	params.Set("userId", strconv.Itoa(c.userID))
	params.Set("blogId", strconv.Itoa(blogID))
	params.Set("userToken", c.userToken)

	path := spec.Endpoint

	switch spec.Endpoint {
	case domain.EndpointTimelines, domain.EndpointAggregation:
		params.Set("from", from.Format(isoPlainLayout)+utcOffsetSuffix)
		params.Set("to", to.Format(isoPlainLayout)+utcOffsetSuffix)
		params.Set("metric", spec.Metric)
		params.Set("network", string(network))
		params.Set("timezone", c.timezone)
		if spec.Subject != "" {
			params.Set("subject", spec.Subject)
		}
	case domain.EndpointDistribution:
		params.Set("from", from.Format(isoPlainLayout))
		params.Set("to", to.Format(isoPlainLayout))
		params.Set("metric", spec.Metric)
		params.Set("network", string(network))
		if spec.Subject != "" {
			params.Set("subject", spec.Subject)
		}
	case domain.EndpointStatsTimeline:
		path = spec.Endpoint + "/" + spec.Metric
		params.Set("start", from.Format(compactLayout))
		params.Set("end", to.Format(compactLayout))
		params.Set("timezone", c.timezone)
	case domain.EndpointStatsDistribution:
		path = spec.Endpoint + "/" + spec.Metric
		params.Set("start", from.Format(compactLayout))
		params.Set("end", to.Format(compactLayout))
		params.Set("encode", "true")
	}

	return fmt.Sprintf("%s/%s?%s", c.baseURL, path, params.Encode())
}

// get performs the request and captures transport, auth and HTTP failures in
// the envelope. Status 0 marks a network-level error.
func (c *ProviderClient) get(ctx context.Context, endpoint, requestURL string) *domain.RawResponse {
	start := time.Now()

	if err := c.rateLimiter.Wait(ctx); err != nil {
		c.metrics.RecordProviderFailure(endpoint, "rate_limit")
		return &domain.RawResponse{URL: requestURL, Status: 0, Error: fmt.Sprintf("rate limit exceeded: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
	if err != nil {
		c.metrics.RecordProviderFailure(endpoint, "request_creation")
		return &domain.RawResponse{URL: requestURL, Status: 0, Error: fmt.Sprintf("failed to create request: %v", err)}
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.metrics.RecordProviderFailure(endpoint, "network_error")
		return &domain.RawResponse{URL: requestURL, Status: 0, Error: fmt.Sprintf("request failed: %v", err)}
	}
	defer resp.Body.Close()

	duration := time.Since(start)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.RecordProviderFailure(endpoint, "read_body")
		return &domain.RawResponse{URL: requestURL, Status: 0, Error: fmt.Sprintf("failed to read response body: %v", err)}
	}

	if resp.StatusCode != http.StatusOK {
		c.metrics.RecordProviderCall(endpoint, fmt.Sprintf("error_%d", resp.StatusCode), duration)
		snippet := string(body)
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		return &domain.RawResponse{
			URL:    requestURL,
			Status: resp.StatusCode,
			Error:  fmt.Sprintf("error %d: %s", resp.StatusCode, snippet),
		}
	}

	c.metrics.RecordProviderCall(endpoint, "success", duration)

	c.logger.WithContext(ctx).WithFields(map[string]any{
		"endpoint": endpoint,
		"duration": duration,
		"bytes":    len(body),
	}).Debug("Provider request completed")

	return &domain.RawResponse{
		URL:    requestURL,
		Status: resp.StatusCode,
		Data:   json.RawMessage(body),
	}
}
