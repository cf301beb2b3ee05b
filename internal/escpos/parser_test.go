// internal/escpos/parser_test.go
package escpos

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(cmds []*Command) []string {
	out := make([]string, len(cmds))
	for i, c := range cmds {
		out[i] = c.Name
	}
	return out
}

func totalLen(cmds []*Command) int {
	n := 0
	for _, c := range cmds {
		n += c.Len()
	}
	return n
}

func concat(cmds []*Command) []byte {
	var out []byte
	for _, c := range cmds {
		out = append(out, c.Bytes()...)
	}
	return out
}

func TestParseInitializeJustifyText(t *testing.T) {
	data := []byte{ESC, '@', ESC, 'a', '1', 'H', 'i', LF}
	cmds := Parse(DefaultTable(), data)

	require.Equal(t, []string{"INITIALIZE", "JUSTIFY", "TEXT", "LINE_FEED"}, names(cmds))
	assert.Equal(t, []byte{'1'}, cmds[1].Payload)
	assert.Nil(t, cmds[2].Prefix)
	assert.Equal(t, []byte("Hi"), cmds[2].Payload)
	assert.Equal(t, data, concat(cmds))
}

func TestParseIsLossless(t *testing.T) {
	alphabet := []byte{ESC, GS, FS, DLE, CAN, LF, NUL, '(', 'k', 'L', '8', 'v', '0', '*', 'q', 0x01, 0x02, 0x03, 0x30, 0x31, 0x41, 0xFF, 'A'}
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		data := make([]byte, rng.Intn(200))
		for j := range data {
			if rng.Intn(4) == 0 {
				data[j] = byte(rng.Intn(256))
			} else {
				data[j] = alphabet[rng.Intn(len(alphabet))]
			}
		}
		cmds := Parse(DefaultTable(), data)
		require.Equal(t, len(data), totalLen(cmds), "input %x", data)
		require.Equal(t, data, append([]byte{}, concat(cmds)...), "input %x", data)

		// Interpreting arbitrary input never panics
		require.NotPanics(t, func() { NewInterpreter(nil).Run(cmds) }, "input %x", data)
	}
}

func TestParseEmpty(t *testing.T) {
	assert.Empty(t, Parse(DefaultTable(), nil))
}

func TestParseCoalescesText(t *testing.T) {
	cmds := Parse(DefaultTable(), []byte("abc"))
	require.Len(t, cmds, 1)
	assert.Equal(t, "TEXT", cmds[0].Name)
	assert.Equal(t, []byte("abc"), cmds[0].Payload)
	assert.False(t, cmds[0].Push('d'))
}

func TestParseUnknownSequence(t *testing.T) {
	cmds := Parse(DefaultTable(), []byte{ESC, 'Z', 'x', 'y'})
	require.Equal(t, []string{"UNKNOWN", "TEXT"}, names(cmds))
	assert.Equal(t, CategoryUnknown, cmds[0].Category)
	assert.Nil(t, cmds[0].Prefix)
	assert.Equal(t, []byte{ESC, 'Z'}, cmds[0].Payload)
	assert.Equal(t, []byte("xy"), cmds[1].Payload)
}

func TestParseUnknownThenTextStartsNewCommand(t *testing.T) {
	cmds := Parse(DefaultTable(), []byte{'a', ESC, 'Z', 'b'})
	require.Equal(t, []string{"TEXT", "UNKNOWN", "TEXT"}, names(cmds))
	assert.Equal(t, []byte("a"), cmds[0].Payload)
	assert.Equal(t, []byte("b"), cmds[2].Payload)
}

func TestParseTruncatedPrefixAtEnd(t *testing.T) {
	cmds := Parse(DefaultTable(), []byte{'a', GS, '('})
	require.Equal(t, []string{"TEXT", "UNKNOWN"}, names(cmds))
	assert.Equal(t, []byte{GS, '('}, cmds[1].Payload)
}

func TestParseTruncatedFixedPayload(t *testing.T) {
	cmds := Parse(DefaultTable(), []byte{ESC, '!'})
	require.Len(t, cmds, 1)
	assert.Equal(t, "PRINT_MODE", cmds[0].Name)
	assert.Empty(t, cmds[0].Payload)

	ctx := NewContext()
	want := *ctx
	cmds[0].ApplyContext(ctx)
	assert.Equal(t, want.Text, ctx.Text)
}

func TestParseTruncatedDoublePayload(t *testing.T) {
	cmds := Parse(DefaultTable(), []byte{ESC, '$', 0x2c})
	require.Len(t, cmds, 1)
	assert.Equal(t, []byte{ESC, '$'}, cmds[0].Prefix)
	assert.Equal(t, []byte{0x2c}, cmds[0].Payload)
	assert.Empty(t, cmds[0].DeviceCommands(NewContext()))
}

func TestParseExactLiteral(t *testing.T) {
	tbl := MustTable("init-only", nil, nil, []*Opcode{
		{Name: "INITIALIZE", Prefix: []byte{ESC, '@'}, Kind: PayloadEmpty},
	})
	cmds := Parse(tbl, []byte{ESC, '@', ESC, '@'})
	require.Equal(t, []string{"INITIALIZE", "INITIALIZE"}, names(cmds))
	for _, cmd := range cmds {
		assert.Equal(t, []byte{ESC, '@'}, cmd.Prefix)
		assert.Empty(t, cmd.Payload)
	}
}

func TestParseFixedPayloadStopsAtArity(t *testing.T) {
	cmds := Parse(DefaultTable(), []byte{ESC, 'p', 0, 25, 250, 'x'})
	require.Equal(t, []string{"PULSE", "TEXT"}, names(cmds))
	assert.Equal(t, []byte{0, 25, 250}, cmds[0].Payload)
}

func TestParseLongestPrefix(t *testing.T) {
	cmds := Parse(DefaultTable(), []byte{ESC, 'c', '5', 1, GS, 'v', '0', 0, 1, 0, 1, 0, 0x80})
	require.Equal(t, []string{"PANEL_BUTTONS", "RASTER_IMAGE"}, names(cmds))
	assert.Equal(t, []byte{ESC, 'c', '5'}, cmds[0].Prefix)
}

func TestParserReuse(t *testing.T) {
	p := NewParser(DefaultTable())
	first := p.Parse([]byte{ESC})
	second := p.Parse([]byte("ok"))
	assert.Equal(t, []string{"UNKNOWN"}, names(first))
	assert.Equal(t, []string{"TEXT"}, names(second))
}

func TestParseWithoutFallbackUsesDefaultText(t *testing.T) {
	tbl := MustTable("tiny", nil, nil, []*Opcode{
		{Name: "X", Prefix: []byte{'x'}, Kind: PayloadSingle},
	})
	cmds := Parse(tbl, []byte("axbc"))
	require.Equal(t, []string{"TEXT", "X", "TEXT"}, names(cmds))
	assert.Equal(t, []byte{'b'}, cmds[1].Payload)
	assert.Equal(t, []byte{'c'}, cmds[2].Payload)
}

func TestCommandsOwnTheirHandlers(t *testing.T) {
	data := []byte{GS, 'k', 73, 2, '1', '2', GS, 'k', 73, 1, '9'}
	cmds := Parse(DefaultTable(), data)
	require.Equal(t, []string{"BARCODE", "BARCODE"}, names(cmds))
	assert.NotSame(t, cmds[0].Handler(), cmds[1].Handler())
	assert.Same(t, cmds[0].Opcode(), cmds[1].Opcode())
	assert.Equal(t, []byte{73, 1, '9'}, cmds[1].Payload)
}
