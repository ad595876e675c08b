package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"insightgo/internal/domain"
	"insightgo/pkg/config"
	"insightgo/pkg/logger"
	"insightgo/pkg/metrics"
)

const narrativeSystemPrompt = "You are a senior digital marketing analyst. Write a concise, " +
	"professional performance analysis in flowing prose for a client-facing report. " +
	"Highlight meaningful changes, explain likely causes and suggest one or two concrete actions. " +
	"Do not use markdown headings or bullet lists."

// OpenAINarrative generates report narratives through the chat completions
// API. On any failure it delegates to the fallback client, so callers always
// receive usable text.
type OpenAINarrative struct {
	client   *http.Client
	cfg      config.NarrativeConfig
	fallback domain.NarrativeClient
	logger   *logger.Logger
	metrics  *metrics.Metrics
}

func NewOpenAINarrative(cfg config.NarrativeConfig, fallback domain.NarrativeClient, logger *logger.Logger, metrics *metrics.Metrics) *OpenAINarrative {
	return &OpenAINarrative{
		client:   &http.Client{Timeout: 60 * time.Second},
		cfg:      cfg,
		fallback: fallback,
		logger:   logger,
		metrics:  metrics,
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (o *OpenAINarrative) Generate(ctx context.Context, bundle *domain.NetworkBundle) (string, error) {
	text, err := o.complete(ctx, bundle)
	if err != nil {
		o.logger.WithContext(ctx).WithError(err).WithField("network", bundle.Network).
			Warn("Narrative generation degraded to template")
		o.metrics.RecordNarrative("llm", "failed")
		return o.fallback.Generate(ctx, bundle)
	}

	o.metrics.RecordNarrative("llm", "success")
	return text, nil
}

func (o *OpenAINarrative) complete(ctx context.Context, bundle *domain.NetworkBundle) (string, error) {
	if o.cfg.APIKey == "" {
		return "", errors.New("api key not configured")
	}

	payload, err := json.Marshal(chatRequest{
		Model: o.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: narrativeSystemPrompt},
			{Role: "user", Content: o.buildPrompt(bundle)},
		},
		MaxTokens:   o.cfg.MaxTokens,
		Temperature: o.cfg.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", o.cfg.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.cfg.APIKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("completion request returned status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("completion error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("completion returned no choices")
	}

	text := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New("completion returned empty content")
	}

	return truncateWords(text, o.cfg.WordBudget), nil
}

// buildPrompt flattens the bundle into plain text the model can reason over.
func (o *OpenAINarrative) buildPrompt(bundle *domain.NetworkBundle) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Network: %s\nPeriod: %s to %s\n\nMetrics (current vs previous period):\n",
		bundle.Network, bundle.From.Format("2006-01-02"), bundle.To.Format("2006-01-02"))

	for _, metric := range bundle.Metrics {
		fmt.Fprintf(&b, "- %s: %s (previous %s, change %+.1f%%)\n",
			metric.Label,
			formatNarrativeValue(metric.Value()),
			formatNarrativeValue(metric.PreviousValue()),
			metric.Change())
	}

	for _, breakdown := range bundle.Breakdowns {
		fmt.Fprintf(&b, "\n%s:\n", breakdown.Label)
		for i, entry := range breakdown.Entries {
			if i >= 5 {
				break
			}
			fmt.Fprintf(&b, "- %s: %s\n", entry.Category, formatNarrativeValue(entry.Value))
		}
	}

	fmt.Fprintf(&b, "\nWrite the analysis in at most %d words.", o.cfg.WordBudget)
	return b.String()
}

func truncateWords(text string, budget int) string {
	if budget <= 0 {
		return text
	}
	words := strings.Fields(text)
	if len(words) <= budget {
		return text
	}
	return strings.Join(words[:budget], " ")
}
