// internal/thermal/thermal.go

// Package thermal compiles the .thermal fixture format into raw printer
// bytes.
//
// A .thermal source is line oriented. Tokens are separated by whitespace.
// A quoted span emits its bytes literally (\" and \\ escape), a control
// mnemonic such as ESC or LF emits one byte, 0x1b40 emits hex bytes, a
// plain number emits one decimal byte, and anything else emits its UTF-8
// bytes. Blank lines and lines starting with // or '// are skipped
package thermal

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrSyntax is returned for malformed tokens
var ErrSyntax = errors.New("thermal: syntax error")

var mnemonics = map[string]byte{
	"NUL": 0x00,
	"EOT": 0x04,
	"ENQ": 0x05,
	"HT":  0x09,
	"LF":  0x0a,
	"FF":  0x0c,
	"CR":  0x0d,
	"DLE": 0x10,
	"DC4": 0x14,
	"CAN": 0x18,
	"ESC": 0x1b,
	"FS":  0x1c,
	"GS":  0x1d,
}

// Compile converts source text to bytes
func Compile(src string) ([]byte, error) {
	return Load(strings.NewReader(src))
}

// LoadFile compiles the .thermal file at path
func LoadFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// Load compiles source read from r
func Load(r io.Reader) ([]byte, error) {
	var out bytes.Buffer
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "//") || strings.HasPrefix(text, "'//") {
			continue
		}
		if err := compileLine(&out, text); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read source: %w", err)
	}
	return out.Bytes(), nil
}

func compileLine(out *bytes.Buffer, line string) error {
	for i := 0; i < len(line); {
		switch c := line[i]; {
		case c == ' ' || c == '\t':
			i++
		case c == '"':
			n, err := quoted(out, line[i+1:])
			if err != nil {
				return err
			}
			i += n + 2
		default:
			j := i
			for j < len(line) && line[j] != ' ' && line[j] != '\t' {
				j++
			}
			if err := token(out, line[i:j]); err != nil {
				return err
			}
			i = j
		}
	}
	return nil
}

// quoted writes the span up to the closing quote and returns its length in
// the source
func quoted(out *bytes.Buffer, s string) (int, error) {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			if i+1 < len(s) && (s[i+1] == '"' || s[i+1] == '\\') {
				i++
			}
			out.WriteByte(s[i])
		case '"':
			return i, nil
		default:
			out.WriteByte(s[i])
		}
	}
	return 0, fmt.Errorf("%w: unterminated string", ErrSyntax)
}

func token(out *bytes.Buffer, tok string) error {
	if b, ok := mnemonics[tok]; ok {
		out.WriteByte(b)
		return nil
	}
	if strings.HasPrefix(tok, "0x") || strings.HasPrefix(tok, "0X") {
		digits := tok[2:]
		if len(digits)%2 == 1 {
			digits = "0" + digits
		}
		b, err := hex.DecodeString(digits)
		if err != nil || len(b) == 0 {
			return fmt.Errorf("%w: bad hex literal %q", ErrSyntax, tok)
		}
		out.Write(b)
		return nil
	}
	if isDigits(tok) {
		n, err := strconv.ParseUint(tok, 10, 8)
		if err != nil {
			return fmt.Errorf("%w: decimal literal %q out of byte range", ErrSyntax, tok)
		}
		out.WriteByte(byte(n))
		return nil
	}
	out.WriteString(tok)
	return nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
