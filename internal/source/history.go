package source

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

// HistoryEntry is one line of history.jsonl, the prompt launcher history.
type HistoryEntry struct {
	Display   string `json:"display"`
	Project   string `json:"project"`
	Timestamp int64  `json:"timestamp"`
}

// Time converts the entry's timestamp to time.Time. History files have
// carried both second and millisecond precision over time.
func (h HistoryEntry) Time() time.Time {
	if h.Timestamp > 1e12 {
		return time.UnixMilli(h.Timestamp)
	}
	return time.Unix(h.Timestamp, 0)
}

// LoadHistory reads history.jsonl. A missing file yields an empty slice;
// malformed lines are skipped.
func LoadHistory(path string) ([]HistoryEntry, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open history: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, bufio.MaxScanTokenSize), maxJSONLLineSize)

	var entries []HistoryEntry
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var entry HistoryEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan history: %w", err)
	}
	return entries, nil
}
