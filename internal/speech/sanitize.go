package speech

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	mdLink   = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	mdBullet = regexp.MustCompile(`^\s*(?:[-+•]|\d+[.)])\s+`)
	mdMarks  = regexp.MustCompile("[*_#>`~|]+")
	spaces   = regexp.MustCompile(`\s+`)
)

// Sanitize turns markdown reply text into plain speakable text: decoration
// and emoji are removed and line breaks become sentence breaks.
func Sanitize(text string) string {
	text = mdLink.ReplaceAllString(text, "$1")

	var parts []string
	for _, line := range strings.Split(text, "\n") {
		line = mdBullet.ReplaceAllString(line, "")
		line = mdMarks.ReplaceAllString(line, "")
		line = stripEmoji(line)
		line = strings.TrimSpace(spaces.ReplaceAllString(line, " "))
		if line != "" {
			parts = append(parts, line)
		}
	}

	var b strings.Builder
	for i, p := range parts {
		b.WriteString(p)
		if i == len(parts)-1 {
			break
		}
		if endsSentence(p) {
			b.WriteString(" ")
		} else {
			b.WriteString(". ")
		}
	}
	return b.String()
}

// Truncate cuts text to at most max runes, preferring a word boundary.
func Truncate(text string, max int) string {
	if max <= 0 || utf8.RuneCountInString(text) <= max {
		return text
	}
	r := []rune(text)[:max]
	cut := string(r)
	if i := strings.LastIndexFunc(cut, unicode.IsSpace); i > len(cut)/2 {
		cut = cut[:i]
	}
	return strings.TrimSpace(cut)
}

func endsSentence(s string) bool {
	r, _ := utf8.DecodeLastRuneInString(s)
	switch r {
	case '.', '!', '?', ':', ';', '।', '۔', '؟':
		return true
	}
	return false
}

func stripEmoji(s string) string {
	return strings.Map(func(r rune) rune {
		if isEmoji(r) {
			return -1
		}
		return r
	}, s)
}

func isEmoji(r rune) bool {
	switch {
	case r >= 0x1F000 && r <= 0x1FAFF:
		return true
	case r >= 0x2600 && r <= 0x27BF:
		return true
	case r >= 0x2B00 && r <= 0x2BFF:
		return true
	case r >= 0xFE00 && r <= 0xFE0F:
		return true
	case r == 0x200D:
		return true
	}
	return false
}
