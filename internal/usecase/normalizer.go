package usecase

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"

	"insightgo/internal/domain"
)

// Timestamp formats seen across provider endpoints - try multiple formats
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// NormalizeTimeseries flattens a provider envelope into timestamp-ordered
// points, parsing the payload per the catalog shape tag. Non-200 responses,
// missing payloads and unrecognized nesting all yield an empty series; entries
// that fail coercion are skipped individually.
func NormalizeTimeseries(raw *domain.RawResponse, shape domain.PayloadShape) []domain.TimeSeriesPoint {
	if !raw.OK() {
		return nil
	}

	payload := bytes.TrimSpace(raw.Data)
	if len(payload) == 0 || bytes.Equal(payload, []byte("null")) {
		return nil
	}

	var points []domain.TimeSeriesPoint
	switch shape {
	case domain.ShapePairs:
		points = parsePairSeries(payload)
	default:
		points = parseTimelineSeries(payload)
	}

	// Stable sort: equal timestamps keep provider order, so the last delivered
	// entry wins the final-value read.
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Timestamp.Before(points[j].Timestamp)
	})

	return points
}

// NormalizeDistribution flattens a distribution envelope into category/value
// entries, ordered by value descending for deterministic table output.
func NormalizeDistribution(raw *domain.RawResponse) []domain.DistributionEntry {
	if !raw.OK() {
		return nil
	}

	payload := bytes.TrimSpace(raw.Data)
	if len(payload) == 0 || bytes.Equal(payload, []byte("null")) {
		return nil
	}

	inner := payload
	if payload[0] == '{' {
		// Unwrap the {"data": ...} envelope when present; the web stats
		// endpoints return the category map at the top level instead.
		var env struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(payload, &env); err == nil {
			if trimmed := bytes.TrimSpace(env.Data); len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
				inner = trimmed
			}
		}
	}

	var entries []domain.DistributionEntry
	switch inner[0] {
	case '[':
		var items []struct {
			Key   string          `json:"key"`
			Value json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(inner, &items); err != nil {
			return nil
		}
		for _, item := range items {
			value, ok := coerceFloat(item.Value)
			if !ok || item.Key == "" {
				continue
			}
			entries = append(entries, domain.DistributionEntry{Category: item.Key, Value: value})
		}
	case '{':
		var categories map[string]json.RawMessage
		if err := json.Unmarshal(inner, &categories); err != nil {
			return nil
		}
		for category, rawValue := range categories {
			value, ok := coerceFloat(rawValue)
			if !ok {
				continue
			}
			entries = append(entries, domain.DistributionEntry{Category: category, Value: value})
		}
	default:
		return nil
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Value != entries[j].Value {
			return entries[i].Value > entries[j].Value
		}
		return entries[i].Category < entries[j].Category
	})

	return entries
}

// parseTimelineSeries handles the data.data[0].values[] family.
func parseTimelineSeries(payload []byte) []domain.TimeSeriesPoint {
	var env struct {
		Data []struct {
			Values []struct {
				DateTime string          `json:"dateTime"`
				Value    json.RawMessage `json:"value"`
			} `json:"values"`
		} `json:"data"`
	}

	if err := json.Unmarshal(payload, &env); err != nil || len(env.Data) == 0 {
		return nil
	}

	var points []domain.TimeSeriesPoint
	for _, item := range env.Data[0].Values {
		timestamp, ok := parseTimestamp(item.DateTime)
		if !ok {
			continue
		}
		value, ok := coerceFloat(item.Value)
		if !ok {
			continue
		}
		points = append(points, domain.TimeSeriesPoint{Timestamp: timestamp, Value: value})
	}

	return points
}

// parsePairSeries handles the web-analytics [[epoch_millis, "value"], ...]
// family. Both elements may arrive as numbers or strings.
func parsePairSeries(payload []byte) []domain.TimeSeriesPoint {
	var rows [][]json.RawMessage
	if err := json.Unmarshal(payload, &rows); err != nil {
		return nil
	}

	var points []domain.TimeSeriesPoint
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		epoch, ok := coerceFloat(row[0])
		if !ok {
			continue
		}
		value, ok := coerceFloat(row[1])
		if !ok {
			continue
		}
		points = append(points, domain.TimeSeriesPoint{
			Timestamp: time.UnixMilli(int64(epoch)).UTC(),
			Value:     value,
		})
	}

	return points
}

func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// coerceFloat accepts numeric JSON tokens and numeric strings.
func coerceFloat(raw json.RawMessage) (float64, bool) {
	var number json.Number
	if err := json.Unmarshal(raw, &number); err == nil {
		if f, err := number.Float64(); err == nil {
			return f, true
		}
		return 0, false
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f, true
		}
	}

	return 0, false
}
