// internal/escpos/codepage.go
package escpos

import (
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// codePages maps ESC t page numbers to character maps. Pages without an
// entry decode as PC437
var codePages = map[byte]*charmap.Charmap{
	0:  charmap.CodePage437,
	2:  charmap.CodePage850,
	3:  charmap.CodePage860,
	4:  charmap.CodePage863,
	5:  charmap.CodePage865,
	16: charmap.Windows1252,
	17: charmap.CodePage866,
	18: charmap.CodePage852,
	19: charmap.CodePage858,
	45: charmap.Windows1250,
	46: charmap.Windows1251,
	47: charmap.Windows1253,
	48: charmap.Windows1254,
	50: charmap.Windows1257,
}

// DecodeText converts printer bytes to a string using code page page
func DecodeText(page byte, b []byte) string {
	cm, ok := codePages[page]
	if !ok {
		cm = charmap.CodePage437
	}
	var sb strings.Builder
	sb.Grow(len(b))
	for _, c := range b {
		if c < 0x80 {
			sb.WriteByte(c)
			continue
		}
		sb.WriteRune(cm.DecodeByte(c))
	}
	return sb.String()
}
