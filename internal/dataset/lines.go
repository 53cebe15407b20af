package dataset

import "strings"

// Lines splits raw text into trimmed, non-empty lines. Besides \n and \r it
// breaks on \v, \f, the \x1c-\x1e separators, NEL and the Unicode line and
// paragraph separators.
func Lines(raw string) []string {
	var lines []string
	for _, line := range strings.FieldsFunc(raw, isLineBreak) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}

// normalize applies the same trim / drop-empty rule to lines that were split elsewhere
func normalize(in []string) []string {
	var out []string
	for _, line := range in {
		out = append(out, Lines(line)...)
	}
	return out
}
