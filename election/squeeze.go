package election

import (
	"strings"
	"unicode"
)

// Squeeze joins a pretty-printed JSON document onto one line. Each line break
// and the indentation that follows it are removed; a break right after a comma
// becomes a single space. Non-whitespace characters are never touched.
//
// It expects one field per line with trailing commas, the shape json.MarshalIndent
// and most editors produce. Line breaks inside string values are not preserved.
func Squeeze(text string) string {
	var (
		b         strings.Builder
		indent    bool
		lastComma bool
	)

	b.Grow(len(text))

	for _, c := range text {
		switch {
		case indent && !unicode.IsSpace(c):
			b.WriteRune(c)
			indent = false
			lastComma = c == ','
		case !indent && c != '\n':
			b.WriteRune(c)
			lastComma = c == ','
		case c == '\n':
			if lastComma {
				b.WriteByte(' ')
			}
			indent = true
			lastComma = false
		}
	}

	return b.String()
}
