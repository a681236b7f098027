package domain

import (
	"encoding/binary"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/blake2b"
)

const (
	maxNameLength    = 100
	fallbackName     = "video"
	unknownName      = "unknown"
	ThumbnailExt     = ".jpg"
	locatorHashSpace = 10000
)

var (
	bracketToken = regexp.MustCompile(`\[(\d+)\]`)
	unsafeChars  = strings.NewReplacer(
		"<", "_",
		">", "_",
		":", "_",
		`"`, "_",
		"/", "_",
		`\`, "_",
		"|", "_",
		"?", "_",
		"*", "_",
	)
)

// ParsedTitle is the filesystem-safe view of a free text title.
type ParsedTitle struct {
	CleanName      string
	TimestampToken string
}

// ParseTitle extracts the rightmost bracketed integer of title as its
// token and sanitises what remains. Without a token, or for an empty
// title, the token is the unix time of now.
//
//	"[BraveDown.Com] [VK Video] [1734636028]" -> ("BraveDown.Com_VK_Video", "1734636028")
func ParseTitle(title string, now time.Time) ParsedTitle {
	if title == "" {
		return ParsedTitle{CleanName: unknownName, TimestampToken: timeToken(now)}
	}

	token := timeToken(now)
	rest := title
	if matches := bracketToken.FindAllStringSubmatchIndex(title, -1); len(matches) > 0 {
		last := matches[len(matches)-1]
		token = title[last[2]:last[3]]
		rest = title[:last[0]] + title[last[1]:]
	}

	rest = strings.NewReplacer("[", "", "]", "").Replace(rest)
	clean := SanitizeName(rest)
	if clean == "" {
		clean = fallbackName
	}
	return ParsedTitle{CleanName: clean, TimestampToken: token}
}

// SanitizeName replaces characters that are unsafe in file names with
// underscores, joins whitespace runs with a single underscore and caps the
// result at 100 characters. SanitizeName(SanitizeName(s)) == SanitizeName(s).
func SanitizeName(s string) string {
	s = unsafeChars.Replace(s)
	s = strings.Join(strings.Fields(s), "_")
	if utf8.RuneCountInString(s) > maxNameLength {
		runes := []rune(s)
		s = string(runes[:maxNameLength])
	}
	return s
}

// ThumbnailName returns the preferred file name for item, before any
// collision suffix is applied.
func ThumbnailName(item WorkItem, now time.Time) string {
	if item.Title != "" {
		p := ParseTitle(item.Title, now)
		return p.CleanName + "_" + p.TimestampToken + ThumbnailExt
	}
	return fmt.Sprintf("%s_%s_%04d%s", fallbackName, timeToken(now), LocatorHash(item.Locator), ThumbnailExt)
}

// LocatorHash is a short stable hash that keeps titleless items created
// within the same second apart.
func LocatorHash(locator string) int {
	sum := blake2b.Sum256([]byte(locator))
	return int(binary.BigEndian.Uint64(sum[:8]) % locatorHashSpace)
}

func timeToken(now time.Time) string {
	return strconv.FormatInt(now.Unix(), 10)
}
