package locator

import (
	"fmt"
	"strings"
)

// EscapeIdent escapes s for use as a CSS identifier, following the rules of
// the browser's CSS.escape.
func EscapeIdent(s string) string {
	if s == "-" {
		return `\-`
	}

	var b strings.Builder

	for i, r := range []rune(s) {
		switch {
		case r == 0:
			b.WriteRune('\uFFFD')
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&b, `\%x `, r)
		case r >= '0' && r <= '9' && (i == 0 || (i == 1 && strings.HasPrefix(s, "-"))):
			fmt.Fprintf(&b, `\%x `, r)
		case r >= 0x80, r == '-', r == '_',
			r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		default:
			b.WriteByte('\\')
			b.WriteRune(r)
		}
	}

	return b.String()
}
