// Package render writes command output as aligned tables or JSON.
package render

import (
	"fmt"
	"io"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/olekukonko/tablewriter"
)

// Format selects the output encoding.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

// ParseFormat validates a --format flag value.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "table":
		return FormatTable, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown format %q (expected table or json)", s)
	}
}

// Renderer emits rows in the configured format.
type Renderer struct {
	out    io.Writer
	format Format
}

func New(out io.Writer, format Format) *Renderer {
	return &Renderer{out: out, format: format}
}

func (r *Renderer) Format() Format {
	return r.format
}

// Table writes headers and rows as an aligned table, or as JSON objects
// keyed by lowercased header names when the format is json.
func (r *Renderer) Table(headers []string, rows [][]string) error {
	if r.format == FormatJSON {
		objects := make([]map[string]string, 0, len(rows))
		for _, row := range rows {
			obj := make(map[string]string, len(headers))
			for i, h := range headers {
				key := strings.ToLower(strings.ReplaceAll(h, " ", "_"))
				if i < len(row) {
					obj[key] = row[i]
				}
			}
			objects = append(objects, obj)
		}
		return r.JSON(objects)
	}

	table := tablewriter.NewWriter(r.out)
	table.SetHeader(headers)
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.AppendBulk(rows)
	table.Render()
	return nil
}

// JSON writes v as indented JSON regardless of the configured format.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}

// Line writes a plain line of text, bypassing table formatting.
func (r *Renderer) Line(format string, args ...any) {
	fmt.Fprintf(r.out, format+"\n", args...)
}

// Truncate shortens s to max runes, appending an ellipsis when cut.
// Newlines are flattened so rows stay on one line.
func Truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if max <= 3 || len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
