package render

import (
	"fmt"
	"strings"
)

// EscapeJS escapes s for use inside a single- or double-quoted JavaScript
// string literal embedded in a <script> element. The result is also a valid
// JSON string body.
func EscapeJS(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\'':
			sb.WriteString(`\u0027`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		// keep </script> and <!-- from closing or confusing the element
		case '<', '>', '&':
			fmt.Fprintf(&sb, `\u%04x`, r)
		// JS line terminators
		case '\u2028', '\u2029':
			fmt.Fprintf(&sb, `\u%04x`, r)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&sb, `\u%04x`, r)
				continue
			}
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
