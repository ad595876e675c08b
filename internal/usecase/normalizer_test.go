package usecase

import (
	"encoding/json"
	"testing"
	"time"

	"insightgo/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawOK(payload string) *domain.RawResponse {
	return &domain.RawResponse{URL: "http://test", Status: 200, Data: json.RawMessage(payload)}
}

func TestNormalizeTimeseriesTimelineShape(t *testing.T) {
	raw := rawOK(`{
		"data": [{
			"values": [
				{"dateTime": "2025-07-03T00:00:00", "value": 5120},
				{"dateTime": "2025-07-01T00:00:00", "value": "5084"},
				{"dateTime": "not-a-date", "value": 9999},
				{"dateTime": "2025-07-02T00:00:00", "value": "oops"},
				{"dateTime": "2025-07-02T00:00:00", "value": 5100}
			]
		}]
	}`)

	points := NormalizeTimeseries(raw, domain.ShapeTimeline)

	require.Len(t, points, 3)
	assert.Equal(t, 5084.0, points[0].Value)
	assert.Equal(t, 5100.0, points[1].Value)
	assert.Equal(t, 5120.0, points[2].Value)
	assert.True(t, points[0].Timestamp.Before(points[1].Timestamp))
	assert.True(t, points[1].Timestamp.Before(points[2].Timestamp))
}

func TestNormalizeTimeseriesPairsShape(t *testing.T) {
	raw := rawOK(`[
		[1754006400000, "5"],
		[1753920000000, 3],
		["1754092800000", 7],
		[1753833600000]
	]`)

	points := NormalizeTimeseries(raw, domain.ShapePairs)

	require.Len(t, points, 3)
	assert.Equal(t, 3.0, points[0].Value)
	assert.Equal(t, 5.0, points[1].Value)
	assert.Equal(t, 7.0, points[2].Value)
	assert.Equal(t, time.UnixMilli(1753920000000).UTC(), points[0].Timestamp)
}

func TestNormalizeTimeseriesRejectsFailures(t *testing.T) {
	tests := []struct {
		name string
		raw  *domain.RawResponse
	}{
		{"transport error", &domain.RawResponse{Status: 0, Error: "connection refused"}},
		{"http error", &domain.RawResponse{Status: 401, Error: "unauthorized"}},
		{"null payload", rawOK(`null`)},
		{"malformed json", rawOK(`{"data": [`)},
		{"unexpected nesting", rawOK(`{"values": [1, 2, 3]}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, NormalizeTimeseries(tt.raw, domain.ShapeTimeline))
		})
	}
}

func TestNormalizeTimeseriesShapeTagDrivesParsing(t *testing.T) {
	pairs := rawOK(`[[1753920000000, 3]]`)
	timeline := rawOK(`{"data": [{"values": [{"dateTime": "2025-07-01T00:00:00", "value": 5}]}]}`)

	// A payload parsed under the wrong tag yields no points rather than a guess.
	assert.Empty(t, NormalizeTimeseries(pairs, domain.ShapeTimeline))
	assert.Empty(t, NormalizeTimeseries(timeline, domain.ShapePairs))

	assert.Len(t, NormalizeTimeseries(pairs, domain.ShapePairs), 1)
	assert.Len(t, NormalizeTimeseries(timeline, domain.ShapeTimeline), 1)
}

func TestNormalizeDistributionEnvelope(t *testing.T) {
	raw := rawOK(`{"data": [
		{"key": "es", "value": 10},
		{"key": "ar", "value": "25"},
		{"key": "", "value": 4},
		{"key": "us", "value": "oops"}
	]}`)

	entries := NormalizeDistribution(raw)

	require.Len(t, entries, 2)
	assert.Equal(t, domain.DistributionEntry{Category: "ar", Value: 25}, entries[0])
	assert.Equal(t, domain.DistributionEntry{Category: "es", Value: 10}, entries[1])
}

func TestNormalizeDistributionTopLevelMap(t *testing.T) {
	raw := rawOK(`{"ar": 1, "es": 3, "us": 3}`)

	entries := NormalizeDistribution(raw)

	require.Len(t, entries, 3)
	assert.Equal(t, "es", entries[0].Category)
	assert.Equal(t, "us", entries[1].Category)
	assert.Equal(t, "ar", entries[2].Category)
}

func TestNormalizeDistributionRejectsFailures(t *testing.T) {
	assert.Empty(t, NormalizeDistribution(&domain.RawResponse{Status: 500, Error: "boom"}))
	assert.Empty(t, NormalizeDistribution(rawOK(`"just a string"`)))
	assert.Empty(t, NormalizeDistribution(rawOK(`{"data": [`)))
}
