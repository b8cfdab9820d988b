package printing

import (
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// The PDF core fonts are single-byte Windows-1252 fonts
var textSubstitutions = strings.NewReplacer(
	"\u2212", "-",
	"\u00a0", " ",
	"\t", " ",
)

// encodeText converts UTF-8 text into the core font code page. Runes that
// the code page cannot represent become '?'.
func encodeText(s string) string {
	s = textSubstitutions.Replace(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x80 {
			b.WriteByte(byte(r))
			continue
		}
		if c, ok := charmap.Windows1252.EncodeRune(r); ok {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('?')
	}
	return b.String()
}
