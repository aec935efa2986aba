package engine

import (
	"context"
	"strings"
)

// NewWhitespace returns the built-in engine that strips trailing blanks from
// every line, drops trailing blank lines and ends the text with one newline.
// Empty input stays empty.
func NewWhitespace() Engine {
	return Transform(Whitespace.String(), nil, func(_ context.Context, req Request) (string, error) {
		return normalizeWhitespace(req.Text), nil
	})
}

func normalizeWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\r")
	}
	out := strings.TrimRight(strings.Join(lines, "\n"), "\n")
	if out == "" {
		return ""
	}
	return out + "\n"
}
