package locator

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Quote wraps s in double quotes for embedding in an XPath, class chain or
// predicate expression. Only double quotes, backslashes and control
// characters are escaped; all other text, including invisible format
// characters, is kept as is so the device side compares the same runes.
// Invalid UTF-8 bytes become U+FFFD.
func Quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"', '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if unicode.IsControl(r) {
				fmt.Fprintf(&b, `\u%04x`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// Unquote reverses Quote.
func Unquote(quoted string) (string, error) {
	return strconv.Unquote(quoted)
}
