package infrastructure

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"insightgo/internal/domain"
	"insightgo/pkg/metrics"
)

// CachedNarrative memoizes narrative text per network and bundle content, so
// repeated report requests over the same window reuse one LLM call.
type CachedNarrative struct {
	next    domain.NarrativeClient
	cache   *TTLCache
	metrics *metrics.Metrics
}

func NewCachedNarrative(next domain.NarrativeClient, cache *TTLCache, metrics *metrics.Metrics) *CachedNarrative {
	return &CachedNarrative{next: next, cache: cache, metrics: metrics}
}

func (c *CachedNarrative) Generate(ctx context.Context, bundle *domain.NetworkBundle) (string, error) {
	key := narrativeKey(bundle)

	if cached, ok := c.cache.Get(key); ok {
		c.metrics.RecordCacheLookup("narrative", "hit")
		return cached.(string), nil
	}
	c.metrics.RecordCacheLookup("narrative", "miss")

	text, err := c.next.Generate(ctx, bundle)
	if err != nil {
		return "", err
	}

	c.cache.Set(key, text)
	return text, nil
}

// narrativeKey hashes the bundle content so a changed metric value yields a
// fresh narrative while identical requests share one.
func narrativeKey(bundle *domain.NetworkBundle) string {
	encoded, err := json.Marshal(bundle)
	if err != nil {
		encoded = []byte(fmt.Sprintf("%s|%s|%s", bundle.Network, bundle.From, bundle.To))
	}
	sum := sha256.Sum256(encoded)
	return string(bundle.Network) + ":" + hex.EncodeToString(sum[:])
}
