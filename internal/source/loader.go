package source

import (
	"context"
	"runtime"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Prompt is a user prompt extracted from a session transcript.
type Prompt struct {
	Text      string    `json:"text"`
	SessionID string    `json:"session_id"`
	Project   string    `json:"project"`
	Timestamp time.Time `json:"timestamp"`
}

// PromptFilter narrows which prompts LoadPrompts returns. Zero values mean
// no filtering on that dimension.
type PromptFilter struct {
	SessionID string
	Project   string
	Since     time.Time
	Until     time.Time
}

// LoadEntries parses the given transcripts in parallel and returns their
// entries, preserving file order. Unreadable files are logged and skipped;
// only context cancellation aborts the load.
func LoadEntries(ctx context.Context, files []SessionFile) ([]Entry, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	perFile := make([][]Entry, len(files))
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			entries, err := ParseTranscript(file.Path)
			if err != nil {
				log.Warn().Err(err).Str("path", file.Path).Msg("skipping unreadable transcript")
				return nil
			}

			// Older transcripts omit per-line session IDs; fall back to the
			// filename-derived one.
			for j := range entries {
				if entries[j].SessionID == "" {
					entries[j].SessionID = file.SessionID
				}
			}
			perFile[i] = entries
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var entries []Entry
	for _, fileEntries := range perFile {
		entries = append(entries, fileEntries...)
	}
	return entries, nil
}

// LoadPrompts extracts user prompts from every session transcript under
// projectsDir, subject to the filter.
func LoadPrompts(ctx context.Context, projectsDir string, filter PromptFilter) ([]Prompt, error) {
	files, err := DiscoverSessions(projectsDir)
	if err != nil {
		return nil, err
	}

	selected := files[:0]
	for _, file := range files {
		if filter.SessionID != "" && file.SessionID != filter.SessionID {
			continue
		}
		if !file.MatchesProject(filter.Project) {
			continue
		}
		selected = append(selected, file)
	}

	entries, err := LoadEntries(ctx, selected)
	if err != nil {
		return nil, err
	}

	var prompts []Prompt
	for _, entry := range entries {
		if entry.Role != "user" || entry.Text == "" {
			continue
		}
		if !filter.Since.IsZero() && entry.Timestamp.Before(filter.Since) {
			continue
		}
		if !filter.Until.IsZero() && entry.Timestamp.After(filter.Until) {
			continue
		}
		project := entry.CWD
		if project == "" {
			project = projectForSession(selected, entry.SessionID)
		}
		prompts = append(prompts, Prompt{
			Text:      entry.Text,
			SessionID: entry.SessionID,
			Project:   project,
			Timestamp: entry.Timestamp,
		})
	}
	return prompts, nil
}

func projectForSession(files []SessionFile, sessionID string) string {
	for _, file := range files {
		if file.SessionID == sessionID {
			return file.Project
		}
	}
	return ""
}
