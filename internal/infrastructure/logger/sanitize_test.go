package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeForLog(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain locator", input: "https://cdn.example/v.mp4", expected: "https://cdn.example/v.mp4"},
		{name: "empty", input: "", expected: ""},
		{name: "newline", input: "title\nERROR: forged", expected: `title\nERROR: forged`},
		{name: "crlf", input: "a\r\nb", expected: `a\r\nb`},
		{name: "tab", input: "a\tb", expected: `a\tb`},
		{name: "null byte", input: "a\x00b", expected: `a\x00b`},
		{name: "ansi escape", input: "\x1b[31mred", expected: `\x1b[31mred`},
		{name: "delete", input: "a\x7fb", expected: `a\x7fb`},
		{name: "vietnamese title", input: "Tiến trình xử lý", expected: "Tiến trình xử lý"},
		{name: "cjk and emoji", input: "中文 👋", expected: "中文 👋"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeForLog(tt.input))
		})
	}
}

func TestSanitizeForLog_NoRawControlChars(t *testing.T) {
	for i := 0; i < 32; i++ {
		out := SanitizeForLog(string(rune(i)))
		for _, r := range out {
			assert.GreaterOrEqual(t, r, rune(0x20), "control char 0x%02x leaked", i)
		}
	}
}

func TestField(t *testing.T) {
	short := "https://cdn.example/v.mp4"
	assert.Equal(t, short, Field(short))

	long := "https://cdn.example/" + strings.Repeat("é", 300)
	got := Field(long)
	assert.Equal(t, maxFieldLength, utf8.RuneCountInString(got))
	assert.True(t, strings.HasSuffix(got, "…"))
}

func TestConfigure(t *testing.T) {
	t.Cleanup(func() { Configure(os.Stderr, false) })

	var buf bytes.Buffer
	Configure(&buf, false)
	Debug.Printf("hidden")
	Info.Printf("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "INFO: ")

	buf.Reset()
	Configure(&buf, true)
	Debug.Printf("visible")
	assert.Contains(t, buf.String(), "DEBUG: ")
}
