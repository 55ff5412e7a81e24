package textbuf

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// splitGraphemes breaks s into user-perceived characters.
func splitGraphemes(s string) []string {
	if s == "" {
		return []string{}
	}
	out := make([]string, 0, len(s))
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}

func isSpace(cluster string) bool {
	r, _ := utf8.DecodeRuneInString(cluster)
	return unicode.IsSpace(r)
}

func splitLines(text string) [][]string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	parts := strings.Split(text, "\n")
	lines := make([][]string, len(parts))
	for i, p := range parts {
		lines[i] = splitGraphemes(p)
	}
	return lines
}
