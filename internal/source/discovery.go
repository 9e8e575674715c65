package source

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// SessionFile is a discovered session transcript on disk.
type SessionFile struct {
	Path      string    `json:"path"`
	Project   string    `json:"project"`
	SessionID string    `json:"session_id"`
	Size      int64     `json:"size"`
	ModTime   time.Time `json:"mod_time"`
}

// DiscoverSessions scans the projects directory for session transcripts.
// Each project subdirectory contains <session-uuid>.jsonl files; sidecar
// files with non-UUID stems (agent transcripts, compaction summaries) are
// not sessions and are skipped. Results are ordered newest first.
func DiscoverSessions(projectsDir string) ([]SessionFile, error) {
	entries, err := os.ReadDir(projectsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read projects directory: %w", err)
	}

	var files []SessionFile
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		projectDir := filepath.Join(projectsDir, entry.Name())
		sessionEntries, err := os.ReadDir(projectDir)
		if err != nil {
			log.Warn().Err(err).Str("dir", projectDir).Msg("skipping unreadable project directory")
			continue
		}

		for _, se := range sessionEntries {
			if se.IsDir() || !strings.HasSuffix(se.Name(), ".jsonl") {
				continue
			}
			stem := strings.TrimSuffix(se.Name(), ".jsonl")
			if _, err := uuid.Parse(stem); err != nil {
				continue
			}
			info, err := se.Info()
			if err != nil {
				continue
			}
			files = append(files, SessionFile{
				Path:      filepath.Join(projectDir, se.Name()),
				Project:   entry.Name(),
				SessionID: stem,
				Size:      info.Size(),
				ModTime:   info.ModTime(),
			})
		}
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].ModTime.After(files[j].ModTime)
	})
	return files, nil
}

// MatchesProject reports whether the file belongs to a project matching the
// pattern (case-insensitive substring; empty matches everything).
func (f SessionFile) MatchesProject(pattern string) bool {
	if pattern == "" {
		return true
	}
	return strings.Contains(strings.ToLower(f.Project), strings.ToLower(pattern))
}
