package cli

import (
	"fmt"
	"time"

	"github.com/thebtf/claude-sift/internal/privacy"
)

// displayText applies the global --redact flag before text reaches output.
func displayText(s string) string {
	if flagRedact {
		return privacy.Redact(s)
	}
	return s
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

// parseTimeFlag accepts a date or RFC 3339 timestamp from --since/--until.
func parseTimeFlag(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q (expected YYYY-MM-DD or RFC 3339)", s)
}
