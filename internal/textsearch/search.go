// Package textsearch implements substring and regex matching over loaded
// records, with grep-style context lines around each hit.
package textsearch

import (
	"fmt"
	"regexp"
	"strings"
)

// Options controls how a search term is matched.
type Options struct {
	CaseSensitive bool
	Regex         bool
	Before        int
	After         int
}

// Document is one searchable unit, identified by its source label.
type Document struct {
	Source string
	Text   string
}

// Match is a single matching line within a document.
type Match struct {
	Source  string   `json:"source"`
	LineNum int      `json:"line"`
	Line    string   `json:"text"`
	Before  []string `json:"before,omitempty"`
	After   []string `json:"after,omitempty"`
}

// Search scans every document line by line and returns all matches with the
// requested context. An invalid regex pattern is the only error path.
func Search(docs []Document, term string, opts Options) ([]Match, error) {
	match, err := compileMatcher(term, opts)
	if err != nil {
		return nil, err
	}

	var matches []Match
	for _, doc := range docs {
		lines := strings.Split(doc.Text, "\n")
		for i, line := range lines {
			if !match(line) {
				continue
			}
			matches = append(matches, Match{
				Source:  doc.Source,
				LineNum: i + 1,
				Line:    line,
				Before:  context(lines, i-opts.Before, i),
				After:   context(lines, i+1, i+1+opts.After),
			})
		}
	}
	return matches, nil
}

func compileMatcher(term string, opts Options) (func(string) bool, error) {
	if opts.Regex {
		pattern := term
		if !opts.CaseSensitive {
			pattern = "(?i)" + pattern
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("compile search pattern: %w", err)
		}
		return re.MatchString, nil
	}

	if opts.CaseSensitive {
		return func(line string) bool {
			return strings.Contains(line, term)
		}, nil
	}

	folded := strings.ToLower(term)
	return func(line string) bool {
		return strings.Contains(strings.ToLower(line), folded)
	}, nil
}

func context(lines []string, from, to int) []string {
	if from < 0 {
		from = 0
	}
	if to > len(lines) {
		to = len(lines)
	}
	if from >= to {
		return nil
	}
	out := make([]string, to-from)
	copy(out, lines[from:to])
	return out
}
