// Package textutils provides the line handling shared by the format
// parsers.
package textutils

import "strings"

// Lines splits raw statement text into trimmed, non-empty lines, preserving
// the top-to-bottom reading order produced by the text extraction layer.
func Lines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimSpace(l)
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
