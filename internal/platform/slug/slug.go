package slug

import (
	"strings"
	"unicode"
)

const maxLen = 48

// Make turns a title into a lowercase file-name fragment of ASCII letters,
// digits and single dashes.
func Make(input string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(input) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if b.Len() > 0 && !dash {
			b.WriteByte('-')
			dash = true
		}
	}
	s := strings.TrimRight(b.String(), "-")
	if len(s) > maxLen {
		s = s[:maxLen]
		if i := strings.LastIndexByte(s, '-'); i > maxLen/2 {
			s = s[:i]
		}
		s = strings.TrimRight(s, "-")
	}
	if s == "" {
		return "untitled"
	}
	return s
}
