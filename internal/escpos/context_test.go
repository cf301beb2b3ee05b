// internal/escpos/context_test.go
package escpos

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResetIsIdempotent(t *testing.T) {
	a := NewContext()
	b := NewContext()
	b.Reset()
	b.Reset()
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("context after repeated reset (-want +got):\n%s", diff)
	}
}

func TestResetRestoresDefaults(t *testing.T) {
	ctx := NewContext()
	in := NewInterpreter(ctx)
	in.Run(Parse(DefaultTable(), []byte{ESC, 'E', 1, GS, '!', 0x11, ESC, 't', 16, GS, 'h', 50, ESC, '@'}))
	if diff := cmp.Diff(NewContext(), ctx); diff != "" {
		t.Fatalf("context after ESC @ (-want +got):\n%s", diff)
	}
}

func defineGraphic83(kind byte, k1, k2, pixels byte) []byte {
	body := []byte{48, k1, k2, 1, 8, 0, 1, 0, 49, pixels}
	n := len(body) + 2
	out := []byte{GS, '(', 'L', byte(n), 0, 48, kind}
	return append(out, body...)
}

func TestImageKeysSeparateStorage(t *testing.T) {
	var data []byte
	data = append(data, defineGraphic83(67, 32, 32, 0xF0)...) // NV
	data = append(data, defineGraphic83(83, 32, 32, 0x0F)...) // download

	ctx := NewContext()
	NewInterpreter(ctx).Run(Parse(DefaultTable(), data))

	nv, ok := ctx.Graphics.Image(ImageRef{K1: 32, K2: 32, Storage: NonVolatile})
	require.True(t, ok)
	ram, ok := ctx.Graphics.Image(ImageRef{K1: 32, K2: 32, Storage: Volatile})
	require.True(t, ok)
	assert.True(t, nv.At(0, 0))
	assert.False(t, ram.At(0, 0))
	assert.True(t, ram.At(7, 0))

	ctx.Reset()
	_, ok = ctx.Graphics.Image(ImageRef{K1: 32, K2: 32, Storage: NonVolatile})
	assert.True(t, ok, "non-volatile graphics survive reset")
	_, ok = ctx.Graphics.Image(ImageRef{K1: 32, K2: 32, Storage: Volatile})
	assert.False(t, ok)
}

func TestPrintStoredGraphic(t *testing.T) {
	data := defineGraphic83(67, 'A', '1', 0x80)
	data = append(data, GS, '(', 'L', 6, 0, 48, 69, 'A', '1', 2, 1)
	data = append(data, GS, '(', 'L', 6, 0, 48, 69, 'Z', 'Z', 1, 1)
	_, events, sum := Interpret(DefaultTable(), data)
	require.Len(t, events, 3)

	img, ok := events[1].Graphics.(*Image)
	require.True(t, ok)
	assert.Equal(t, 2, img.ScaleX)
	assert.Equal(t, 1, img.ScaleY)
	assert.True(t, img.At(0, 0))
	assert.Nil(t, events[2].Graphics)
	assert.Equal(t, 1, sum.Images)
}

func TestDeleteGraphics(t *testing.T) {
	data := defineGraphic83(67, 'A', '1', 0x80)
	data = append(data, defineGraphic83(67, 'A', '2', 0x80)...)
	data = append(data, GS, '(', 'L', 4, 0, 48, 66, 'A', '1')
	ctx := NewContext()
	NewInterpreter(ctx).Run(Parse(DefaultTable(), data))
	assert.Len(t, ctx.Graphics.Images, 1)

	NewInterpreter(ctx).Run(Parse(DefaultTable(), []byte{GS, '(', 'L', 5, 0, 48, 65, 'C', 'L', 'R'}))
	assert.Empty(t, ctx.Graphics.Images)
}

func TestDotDensity(t *testing.T) {
	ctx := NewContext()
	assert.Equal(t, DefaultDPI, ctx.Graphics.DPI)
	NewInterpreter(ctx).Run(Parse(DefaultTable(), []byte{GS, '(', 'L', 4, 0, 48, 49, 51, 51}))
	assert.Equal(t, 360, ctx.Graphics.DPI)
}
