package display

import (
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
)

const DefaultWidth = 80

// Wrap word-wraps text to width, preserving ANSI escape sequences. A width of
// zero or less uses DefaultWidth.
func Wrap(text string, width int) string {
	if width <= 0 {
		width = DefaultWidth
	}
	return wordwrap.String(text, width)
}

// WrapLines wraps each line to width and indents continuation lines so
// wrapped entries stay visually grouped.
func WrapLines(lines []string, width int, prefix string) string {
	if width <= 0 {
		width = DefaultWidth
	}
	inner := width - len(prefix)
	if inner < 1 {
		inner = 1
	}

	var sb strings.Builder
	for _, line := range lines {
		wrapped := wordwrap.String(line, inner)
		first, rest, found := strings.Cut(wrapped, "\n")
		sb.WriteString(prefix)
		sb.WriteString(first)
		sb.WriteString("\n")
		if found {
			sb.WriteString(indent.String(rest, uint(len(prefix))))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// Capitalize returns s with its first character uppercased.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
