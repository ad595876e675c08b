package infrastructure

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"insightgo/internal/domain"
	"insightgo/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func narrativeBundle() *domain.NetworkBundle {
	return &domain.NetworkBundle{
		Network: domain.NetworkInstagram,
		From:    time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		To:      time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC),
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
				Name:    "country",
				Label:   "Followers by country",
				Entries: []domain.DistributionEntry{{Category: "es", Value: 80}},
			},
		},
	}
}

func narrativeConfig(baseURL, apiKey string) config.NarrativeConfig {
	return config.NarrativeConfig{
		APIKey:      apiKey,
		BaseURL:     baseURL,
		Model:       "gpt-3.5-turbo",
		MaxTokens:   1800,
		Temperature: 0.7,
		WordBudget:  600,
	}
}

func TestTemplateNarrative(t *testing.T) {
	client := NewTemplateNarrative(testMetrics)

	text, err := client.Generate(context.Background(), narrativeBundle())
	require.NoError(t, err)

	assert.Contains(t, text, "Instagram")
	assert.Contains(t, text, "Followers grew 20.0% to 120.")
	assert.Contains(t, text, "es (80)")
}

func TestOpenAINarrativeSuccess(t *testing.T) {
	var gotAuth string
	var gotReq chatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/chat/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "  The account grew steadily.  "}},
			},
		})
	}))
	defer server.Close()

	fallback := NewTemplateNarrative(testMetrics)
	client := NewOpenAINarrative(narrativeConfig(server.URL, "sk-test"), fallback, testLogger(), testMetrics)

	text, err := client.Generate(context.Background(), narrativeBundle())
	require.NoError(t, err)

	assert.Equal(t, "The account grew steadily.", text)
	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "gpt-3.5-turbo", gotReq.Model)
	assert.Equal(t, 1800, gotReq.MaxTokens)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.Contains(t, gotReq.Messages[1].Content, "Followers: 120")
}

func TestOpenAINarrativeFallsBackWithoutAPIKey(t *testing.T) {
	fallback := NewTemplateNarrative(testMetrics)
	client := NewOpenAINarrative(narrativeConfig("http://unused", ""), fallback, testLogger(), testMetrics)

	text, err := client.Generate(context.Background(), narrativeBundle())
	require.NoError(t, err)

	assert.Contains(t, text, "Performance summary for Instagram")
}

func TestOpenAINarrativeFallsBackOnHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	fallback := NewTemplateNarrative(testMetrics)
	client := NewOpenAINarrative(narrativeConfig(server.URL, "sk-test"), fallback, testLogger(), testMetrics)

	text, err := client.Generate(context.Background(), narrativeBundle())
	require.NoError(t, err)

	assert.Contains(t, text, "Performance summary for Instagram")
}

func TestTruncateWords(t *testing.T) {
	text := strings.Repeat("word ", 10)

	assert.Equal(t, "word word word", truncateWords(text, 3))
	assert.Equal(t, strings.TrimSpace(text), truncateWords(strings.TrimSpace(text), 20))
	assert.Equal(t, text, truncateWords(text, 0))
}

type countingNarrative struct {
	calls int
}

func (c *countingNarrative) Generate(ctx context.Context, bundle *domain.NetworkBundle) (string, error) {
	c.calls++
	return "generated text", nil
}

func TestCachedNarrativeMemoizes(t *testing.T) {
	next := &countingNarrative{}
	client := NewCachedNarrative(next, NewTTLCache(time.Hour), testMetrics)

	bundle := narrativeBundle()

	text, err := client.Generate(context.Background(), bundle)
	require.NoError(t, err)
	assert.Equal(t, "generated text", text)

	_, err = client.Generate(context.Background(), bundle)
	require.NoError(t, err)
	assert.Equal(t, 1, next.calls)

	// Changed content yields a fresh generation.
	other := narrativeBundle()
	other.Metrics[0].Comparison.Current.FinalValue = 999

	_, err = client.Generate(context.Background(), other)
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls)
}
