package logger

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// maxFieldLength caps values such as signed CDN URLs that would otherwise
// flood a log line.
const maxFieldLength = 160

// SanitizeForLog escapes control characters so titles and locators read
// from user supplied tables cannot forge log lines or drive the terminal.
// Printable Unicode passes through unchanged.
func SanitizeForLog(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for _, r := range s {
		switch {
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&b, `\x%02x`, r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Field sanitises s and shortens it to maxFieldLength runes, marking the
// cut with an ellipsis.
func Field(s string) string {
	s = SanitizeForLog(s)
	if utf8.RuneCountInString(s) <= maxFieldLength {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxFieldLength-1]) + "…"
}
