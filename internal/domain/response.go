package domain

import (
	"encoding/json"
	"net/http"
	"time"
)

// RawResponse is the envelope every provider call resolves to. Transport and
// auth failures are captured as a non-200 status (0 for network errors), never
// as Go errors, so downstream consumers treat "no data" uniformly.
type RawResponse struct {
	URL    string          `json:"url"`
	Status int             `json:"status"`
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// OK reports whether the payload can be trusted.
func (r *RawResponse) OK() bool {
	return r != nil && r.Status == http.StatusOK && len(r.Data) > 0
}

// PayloadShape tags the three JSON families the provider returns.
type PayloadShape string

const (
	// ShapeTimeline wraps points in data.data[0].values[] of {dateTime, value}.
	ShapeTimeline PayloadShape = "timeline"
	// ShapeDistribution wraps entries in data.data[] of {key, value}, or a
	// plain category->value map for the web stats endpoints.
	ShapeDistribution PayloadShape = "distribution"
	// ShapePairs encodes points as two-element arrays [epoch_millis, "value"].
	ShapePairs PayloadShape = "pairs"
)

type TimeSeriesPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

type DistributionEntry struct {
	Category string  `json:"category"`
	Value    float64 `json:"value"`
}
