package source

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

// TodoItem is one task from a per-session todo list.
type TodoItem struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	Status    string `json:"status"`
	Priority  string `json:"priority,omitempty"`
	SessionID string `json:"session_id"`
	AgentID   string `json:"agent_id,omitempty"`
}

// Valid todo statuses as written by the assistant.
const (
	TodoPending    = "pending"
	TodoInProgress = "in_progress"
	TodoCompleted  = "completed"
)

// LoadTodos reads every todo list under todosDir. Filenames follow
// "<session-id>.json" or "<session-id>-agent-<agent-id>.json"; session and
// agent IDs are recovered from the stem. Unreadable or malformed files are
// logged and skipped.
func LoadTodos(todosDir string) ([]TodoItem, error) {
	entries, err := os.ReadDir(todosDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read todos directory: %w", err)
	}

	var items []TodoItem
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		path := filepath.Join(todosDir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("skipping unreadable todo file")
			continue
		}

		var fileItems []TodoItem
		if err := json.Unmarshal(data, &fileItems); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("skipping malformed todo file")
			continue
		}

		sessionID, agentID := splitTodoStem(strings.TrimSuffix(entry.Name(), ".json"))
		for i := range fileItems {
			fileItems[i].SessionID = sessionID
			fileItems[i].AgentID = agentID
		}
		items = append(items, fileItems...)
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].SessionID != items[j].SessionID {
			return items[i].SessionID < items[j].SessionID
		}
		return items[i].AgentID < items[j].AgentID
	})
	return items, nil
}

func splitTodoStem(stem string) (sessionID, agentID string) {
	if idx := strings.Index(stem, "-agent-"); idx >= 0 {
		return stem[:idx], stem[idx+len("-agent-"):]
	}
	return stem, ""
}
