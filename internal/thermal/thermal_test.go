// internal/thermal/thermal_test.go
package thermal

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []byte
	}{
		{"mnemonics", `ESC "@"`, []byte{0x1b, '@'}},
		{"barcode", `GS "k" 4 "*00014*" 0`, append([]byte{0x1d, 'k', 4}, append([]byte("*00014*"), 0)...)},
		{"hex", `0x1b 0x40 0x1D6B`, []byte{0x1b, 0x40, 0x1d, 0x6b}},
		{"odd hex", `0xA`, []byte{0x0a}},
		{"quoted spaces", `"a b" LF`, []byte{'a', ' ', 'b', 0x0a}},
		{"escaped quote", `"say \"hi\""`, []byte(`say "hi"`)},
		{"bare word", `Hello`, []byte("Hello")},
		{"utf8 word", `naïve`, []byte("naïve")},
		{"adjacent quote", `ESC"a"1`, []byte("ESC\"a\"1")},
		{"multi line", "ESC \"@\"\n\n// comment\n'// another\nCR LF", []byte{0x1b, '@', 0x0d, 0x0a}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compile(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompileErrors(t *testing.T) {
	for _, src := range []string{`"open`, `256`, `0xZZ`, "LF\n0x"} {
		_, err := Compile(src)
		require.Error(t, err, src)
		assert.True(t, errors.Is(err, ErrSyntax), src)
	}
}

func TestCompileReportsLine(t *testing.T) {
	_, err := Load(strings.NewReader("LF\nLF\n300"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
}
