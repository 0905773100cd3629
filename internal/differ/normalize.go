package differ

import "strings"

// NormalizeLineEndings converts CRLF and bare CR line endings to LF so
// both diff modes compare a single representation.
func NormalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// StripTrailingWhitespace removes trailing spaces and tabs from every
// line, preserving line endings.
func StripTrailingWhitespace(s string) string {
	if s == "" {
		return s
	}

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
