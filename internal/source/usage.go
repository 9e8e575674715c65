package source

import (
	"fmt"
	"time"
)

// Usage grouping dimensions for AggregateUsage.
const (
	GroupByModel = "model"
	GroupByDate  = "date"
)

// UsageTotals aggregates token usage over one grouping key.
type UsageTotals struct {
	Requests            int   `json:"requests"`
	InputTokens         int64 `json:"input_tokens"`
	OutputTokens        int64 `json:"output_tokens"`
	CacheCreationTokens int64 `json:"cache_creation_tokens"`
	CacheReadTokens     int64 `json:"cache_read_tokens"`
}

// AggregateUsage sums assistant token usage grouped by model or by date
// (YYYY-MM-DD, UTC). Entries without usage data and entries outside the
// since/until window are ignored.
func AggregateUsage(entries []Entry, groupBy string, since, until time.Time) (map[string]*UsageTotals, error) {
	if groupBy != GroupByModel && groupBy != GroupByDate {
		return nil, fmt.Errorf("unknown group-by %q (want %s or %s)", groupBy, GroupByModel, GroupByDate)
	}

	totals := make(map[string]*UsageTotals)
	for _, entry := range entries {
		if entry.Role != "assistant" || entry.Usage == nil {
			continue
		}
		if !since.IsZero() && entry.Timestamp.Before(since) {
			continue
		}
		if !until.IsZero() && entry.Timestamp.After(until) {
			continue
		}

		key := entry.Model
		if groupBy == GroupByDate {
			key = entry.Timestamp.UTC().Format("2006-01-02")
		}
		if key == "" {
			key = "unknown"
		}

		t := totals[key]
		if t == nil {
			t = &UsageTotals{}
			totals[key] = t
		}
		t.Requests++
		t.InputTokens += entry.Usage.InputTokens
		t.OutputTokens += entry.Usage.OutputTokens
		t.CacheCreationTokens += entry.Usage.CacheCreationInputTokens
		t.CacheReadTokens += entry.Usage.CacheReadInputTokens
	}
	return totals, nil
}
