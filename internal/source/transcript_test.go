package source

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTranscript = `{"type":"user","sessionId":"s1","cwd":"/home/u/proj","gitBranch":"main","timestamp":"2025-03-01T10:00:00Z","message":{"role":"user","content":"continue"}}
{"type":"assistant","sessionId":"s1","timestamp":"2025-03-01T10:00:05Z","message":{"role":"assistant","model":"claude-sonnet-4","content":[{"type":"text","text":"On it."},{"type":"tool_use","name":"Bash"}],"usage":{"input_tokens":120,"output_tokens":30,"cache_read_input_tokens":1000}}}
not json at all
{"type":"summary","summary":"irrelevant"}

{"type":"user","sessionId":"s1","timestamp":"2025-03-01T10:05:00Z","message":{"role":"user","content":[{"type":"text","text":"fix the "},{"type":"text","text":"login bug"}]}}
`

func TestParseTranscriptReader(t *testing.T) {
	entries, err := ParseTranscriptReader(strings.NewReader(sampleTranscript))
	require.NoError(t, err)
	require.Len(t, entries, 3)

	first := entries[0]
	assert.Equal(t, "user", first.Role)
	assert.Equal(t, "continue", first.Text)
	assert.Equal(t, "s1", first.SessionID)
	assert.Equal(t, "/home/u/proj", first.CWD)
	assert.Equal(t, "main", first.GitBranch)
	assert.Equal(t, time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC), first.Timestamp)

	second := entries[1]
	assert.Equal(t, "assistant", second.Role)
	assert.Equal(t, "On it.", second.Text, "tool_use items do not contribute text")
	assert.Equal(t, "claude-sonnet-4", second.Model)
	require.NotNil(t, second.Usage)
	assert.Equal(t, int64(120), second.Usage.InputTokens)
	assert.Equal(t, int64(1000), second.Usage.CacheReadInputTokens)

	third := entries[2]
	assert.Equal(t, "fix the login bug", third.Text, "text items concatenate")
}

func TestParseTranscriptReader_Empty(t *testing.T) {
	entries, err := ParseTranscriptReader(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSummarize(t *testing.T) {
	entries, err := ParseTranscriptReader(strings.NewReader(sampleTranscript))
	require.NoError(t, err)

	meta := Summarize(entries)
	assert.Equal(t, "s1", meta.SessionID)
	assert.Equal(t, "/home/u/proj", meta.ProjectPath)
	assert.Equal(t, "main", meta.GitBranch)
	assert.Equal(t, 2, meta.UserCount)
	assert.Equal(t, 1, meta.AssistantCount)
	assert.Equal(t, time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC), meta.FirstMsgAt)
	assert.Equal(t, time.Date(2025, 3, 1, 10, 5, 0, 0, time.UTC), meta.LastMsgAt)
}

func TestAggregateUsage(t *testing.T) {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	entries := []Entry{
		{Role: "assistant", Model: "claude-sonnet-4", Timestamp: base, Usage: &TokenUsage{InputTokens: 100, OutputTokens: 10}},
		{Role: "assistant", Model: "claude-sonnet-4", Timestamp: base.Add(time.Hour), Usage: &TokenUsage{InputTokens: 50, OutputTokens: 5}},
		{Role: "assistant", Model: "claude-opus-4", Timestamp: base.Add(25 * time.Hour), Usage: &TokenUsage{InputTokens: 30, OutputTokens: 3}},
		{Role: "assistant", Model: "claude-opus-4", Timestamp: base}, // no usage
		{Role: "user", Timestamp: base},
	}

	t.Run("by model", func(t *testing.T) {
		totals, err := AggregateUsage(entries, GroupByModel, time.Time{}, time.Time{})
		require.NoError(t, err)
		require.Len(t, totals, 2)
		assert.Equal(t, 2, totals["claude-sonnet-4"].Requests)
		assert.Equal(t, int64(150), totals["claude-sonnet-4"].InputTokens)
		assert.Equal(t, int64(3), totals["claude-opus-4"].OutputTokens)
	})

	t.Run("by date", func(t *testing.T) {
		totals, err := AggregateUsage(entries, GroupByDate, time.Time{}, time.Time{})
		require.NoError(t, err)
		require.Len(t, totals, 2)
		assert.Equal(t, 2, totals["2025-03-01"].Requests)
		assert.Equal(t, 1, totals["2025-03-02"].Requests)
	})

	t.Run("window", func(t *testing.T) {
		totals, err := AggregateUsage(entries, GroupByModel, base.Add(30*time.Minute), time.Time{})
		require.NoError(t, err)
		assert.Equal(t, 1, totals["claude-sonnet-4"].Requests)
	})

	t.Run("unknown group", func(t *testing.T) {
		_, err := AggregateUsage(entries, "project", time.Time{}, time.Time{})
		assert.Error(t, err)
	})
}
