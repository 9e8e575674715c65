package source

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func usageEntries() []Entry {
	day1 := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC)
	return []Entry{
		{Role: "user", Text: "hello", Timestamp: day1},
		{Role: "assistant", Model: "claude-opus-4-5", Timestamp: day1,
			Usage: &TokenUsage{InputTokens: 100, OutputTokens: 50, CacheReadInputTokens: 10}},
		{Role: "assistant", Model: "claude-opus-4-5", Timestamp: day2,
			Usage: &TokenUsage{InputTokens: 200, OutputTokens: 75}},
		{Role: "assistant", Model: "claude-haiku-4-5", Timestamp: day2,
			Usage: &TokenUsage{InputTokens: 30, OutputTokens: 5, CacheCreationInputTokens: 7}},
		// No usage block, must not count as a request.
		{Role: "assistant", Model: "claude-haiku-4-5", Timestamp: day2},
	}
}

func TestAggregateUsage_ByModel(t *testing.T) {
	totals, err := AggregateUsage(usageEntries(), GroupByModel, time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, totals, 2)

	opus := totals["claude-opus-4-5"]
	require.NotNil(t, opus)
	assert.Equal(t, 2, opus.Requests)
	assert.EqualValues(t, 300, opus.InputTokens)
	assert.EqualValues(t, 125, opus.OutputTokens)
	assert.EqualValues(t, 10, opus.CacheReadTokens)

	haiku := totals["claude-haiku-4-5"]
	require.NotNil(t, haiku)
	assert.Equal(t, 1, haiku.Requests)
	assert.EqualValues(t, 7, haiku.CacheCreationTokens)
}

func TestAggregateUsage_ByDateWithWindow(t *testing.T) {
	since := time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)
	totals, err := AggregateUsage(usageEntries(), GroupByDate, since, time.Time{})
	require.NoError(t, err)
	require.Len(t, totals, 1)

	day := totals["2026-05-02"]
	require.NotNil(t, day)
	assert.Equal(t, 2, day.Requests)
	assert.EqualValues(t, 230, day.InputTokens)
}

func TestAggregateUsage_UnknownGroupBy(t *testing.T) {
	_, err := AggregateUsage(nil, "project", time.Time{}, time.Time{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "project")
}

func TestAggregateUsage_MissingModel(t *testing.T) {
	entries := []Entry{
		{Role: "assistant", Timestamp: time.Now(), Usage: &TokenUsage{InputTokens: 1}},
	}
	totals, err := AggregateUsage(entries, GroupByModel, time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Contains(t, totals, "unknown")
	assert.Equal(t, 1, totals["unknown"].Requests)
}
