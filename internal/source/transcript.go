// Package source loads records from a Claude data directory: session
// transcripts, prompt history, and todo lists.
package source

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

const maxJSONLLineSize = 1024 * 1024

// TokenUsage is the per-response token accounting attached to assistant
// transcript lines.
type TokenUsage struct {
	InputTokens              int64 `json:"input_tokens"`
	OutputTokens             int64 `json:"output_tokens"`
	CacheCreationInputTokens int64 `json:"cache_creation_input_tokens"`
	CacheReadInputTokens     int64 `json:"cache_read_input_tokens"`
}

// Entry is a single user or assistant message drawn from a transcript.
type Entry struct {
	Role      string      `json:"role"`
	Text      string      `json:"text"`
	Model     string      `json:"model,omitempty"`
	SessionID string      `json:"session_id"`
	CWD       string      `json:"cwd,omitempty"`
	GitBranch string      `json:"git_branch,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Usage     *TokenUsage `json:"usage,omitempty"`
}

// SessionMeta summarizes one parsed transcript.
type SessionMeta struct {
	SessionID      string    `json:"session_id"`
	ProjectPath    string    `json:"project_path,omitempty"`
	GitBranch      string    `json:"git_branch,omitempty"`
	FirstMsgAt     time.Time `json:"first_msg_at"`
	LastMsgAt      time.Time `json:"last_msg_at"`
	UserCount      int       `json:"user_count"`
	AssistantCount int       `json:"assistant_count"`
}

type transcriptMessage struct {
	Role    string          `json:"role"`
	Model   string          `json:"model"`
	Content json.RawMessage `json:"content"`
	Usage   *TokenUsage     `json:"usage"`
}

type transcriptLine struct {
	Type      string            `json:"type"`
	Message   transcriptMessage `json:"message"`
	Timestamp string            `json:"timestamp"`
	SessionID string            `json:"sessionId"`
	CWD       string            `json:"cwd"`
	GitBranch string            `json:"gitBranch"`
}

type contentItem struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ParseTranscript reads a Claude JSONL session file and returns its user and
// assistant messages in file order.
func ParseTranscript(path string) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open transcript: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	return ParseTranscriptReader(file)
}

// ParseTranscriptReader reads Claude JSONL session data from an io.Reader.
// Malformed lines are skipped; only a read failure is an error.
func ParseTranscriptReader(r io.Reader) ([]Entry, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, bufio.MaxScanTokenSize), maxJSONLLineSize)

	var entries []Entry
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var parsed transcriptLine
		if err := json.Unmarshal([]byte(line), &parsed); err != nil {
			continue
		}
		if parsed.Type != "user" && parsed.Type != "assistant" {
			continue
		}

		timestamp, _ := parseTimestamp(parsed.Timestamp)
		entries = append(entries, Entry{
			Role:      parsed.Type,
			Text:      contentText(parsed.Message.Content),
			Model:     parsed.Message.Model,
			SessionID: parsed.SessionID,
			CWD:       parsed.CWD,
			GitBranch: parsed.GitBranch,
			Timestamp: timestamp,
			Usage:     parsed.Message.Usage,
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan transcript: %w", err)
	}

	return entries, nil
}

// Summarize collapses a transcript's entries into session metadata.
func Summarize(entries []Entry) SessionMeta {
	var meta SessionMeta
	for _, entry := range entries {
		if meta.SessionID == "" {
			meta.SessionID = entry.SessionID
		}
		if meta.ProjectPath == "" {
			meta.ProjectPath = entry.CWD
		}
		if meta.GitBranch == "" {
			meta.GitBranch = entry.GitBranch
		}
		if !entry.Timestamp.IsZero() {
			if meta.FirstMsgAt.IsZero() {
				meta.FirstMsgAt = entry.Timestamp
			}
			meta.LastMsgAt = entry.Timestamp
		}
		switch entry.Role {
		case "user":
			meta.UserCount++
		case "assistant":
			meta.AssistantCount++
		}
	}
	return meta
}

func parseTimestamp(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}

	t, err := time.Parse(time.RFC3339, raw)
	if err == nil {
		return t, true
	}
	t, err = time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// contentText extracts the text of a message. Content is either a plain
// string or an array of typed items, of which only "text" items contribute.
func contentText(content json.RawMessage) string {
	if len(content) == 0 {
		return ""
	}

	var plain string
	if err := json.Unmarshal(content, &plain); err == nil {
		return plain
	}

	var items []contentItem
	if err := json.Unmarshal(content, &items); err != nil {
		return ""
	}

	texts := make([]string, 0, len(items))
	for _, item := range items {
		if item.Type == "text" {
			texts = append(texts, item.Text)
		}
	}
	return strings.Join(texts, "")
}
