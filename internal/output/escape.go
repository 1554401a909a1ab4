package output

import (
	"fmt"
	"unicode/utf16"
	"unicode/utf8"
)

// escapeNonASCII rewrites every non-ASCII rune in encoded JSON as a
// lowercase \uXXXX escape, using a surrogate pair above U+FFFF. Non-ASCII
// bytes only occur inside JSON strings, so the document stays valid.
func escapeNonASCII(data []byte) []byte {
	out := make([]byte, 0, len(data))
	for len(data) > 0 {
		if data[0] < utf8.RuneSelf {
			out = append(out, data[0])
			data = data[1:]
			continue
		}
		r, size := utf8.DecodeRune(data)
		data = data[size:]
		if r > 0xFFFF {
			hi, lo := utf16.EncodeRune(r)
			out = fmt.Appendf(out, `\u%04x\u%04x`, hi, lo)
			continue
		}
		out = fmt.Appendf(out, `\u%04x`, r)
	}
	return out
}
