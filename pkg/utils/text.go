package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Truncate returns at most max runes of s and reports whether anything was cut.
func Truncate(s string, max int) (string, bool) {
	if max < 0 {
		max = 0
	}
	if utf8.RuneCountInString(s) <= max {
		return s, false
	}
	count := 0
	for i := range s {
		if count == max {
			return s[:i], true
		}
		count++
	}
	return s, false
}

// TruncateWithMarker cuts s to max runes and appends marker only when something was cut.
func TruncateWithMarker(s string, max int, marker string) string {
	out, cut := Truncate(s, max)
	if cut {
		return out + marker
	}
	return out
}

// CollapseSpaces folds every run of whitespace (newlines included) into one space.
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// CollapseLineSpaces folds runs of spaces and tabs inside each line, trims every line
// and drops empty ones. Line breaks are kept.
func CollapseLineSpaces(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = CollapseSpaces(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

// WordCount counts whitespace separated words.
func WordCount(s string) int {
	return len(strings.FieldsFunc(s, unicode.IsSpace))
}
