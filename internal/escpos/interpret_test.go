// internal/escpos/interpret_test.go
package escpos

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterpretReceipt(t *testing.T) {
	data := []byte{ESC, '@', ESC, 'a', '1', 'H', 'i', LF}
	cmds, events, sum := Interpret(DefaultTable(), data)
	require.Len(t, cmds, 4)
	require.Len(t, events, 4)

	assert.Equal(t, DeviceInitialize, events[0].Device[0].Kind)
	assert.Equal(t, "Hi", events[2].Text)
	assert.Equal(t, "\n", events[3].Text)
	assert.Equal(t, 5, events[2].Offset)

	assert.Equal(t, Summary{
		Bytes:     8,
		Commands:  4,
		TextBytes: 3,
		FeedLines: 1,
		PaperDots: 30,
		DPI:       DefaultDPI,
		PrintJobs: 1,
		Text:      "Hi\n",
	}, sum)
}

func TestInterpreterContextFollowsStream(t *testing.T) {
	in := NewInterpreter(nil)
	in.Run(Parse(DefaultTable(), []byte{ESC, '@', ESC, 'a', '1', 'H', 'i', LF}))
	assert.Equal(t, JustifyCenter, in.Context().Text.Justify)
}

func TestInterpretCodePage(t *testing.T) {
	_, _, sum := Interpret(DefaultTable(), []byte{ESC, 't', 16, 0x80, ' ', '5', ESC, 't', 0, 0x82})
	assert.Equal(t, "€ 5é", sum.Text)
}

func TestInterpretCountsCutsAndUnknown(t *testing.T) {
	data := []byte{ESC, 'd', 2, GS, 'V', 66, 0, ESC, 'Z'}
	_, _, sum := Interpret(DefaultTable(), data)
	assert.Equal(t, 1, sum.Cuts)
	assert.Equal(t, 2, sum.FeedLines)
	assert.Equal(t, 60, sum.PaperDots)
	assert.Equal(t, 1, sum.Unknown)
	assert.Equal(t, 2, sum.UnknownBytes)
}

func TestDecodeTextFallsBackTo437(t *testing.T) {
	assert.Equal(t, "é", DecodeText(1, []byte{0x82}))
	assert.Equal(t, "plain", DecodeText(16, []byte("plain")))
}

func TestInterpretMarksPrintJobs(t *testing.T) {
	data := []byte{'A', LF, GS, 'V', 0, 'B', ESC, '@', 'C'}
	cmds, events, sum := Interpret(DefaultTable(), data)
	require.Equal(t, []string{"TEXT", "LINE_FEED", "CUT", "TEXT", "INITIALIZE", "TEXT"}, names(cmds))

	begins := func(ev Event) bool {
		return len(ev.Device) > 0 && ev.Device[0].Kind == DeviceBeginPrint
	}
	assert.True(t, begins(events[0]))
	assert.False(t, begins(events[1]))
	assert.True(t, begins(events[3]))
	assert.True(t, begins(events[5]))
	assert.Equal(t, 3, sum.PrintJobs)
}

func TestGraphicsCounterFollowsReset(t *testing.T) {
	image := []byte{GS, 'v', '0', 0, 1, 0, 1, 0, 0xff}
	data := []byte{GS, 'k', 4, 'A', NUL, ESC, '@'}
	data = append(data, image...)
	data = append(data, image...)

	in := NewInterpreter(nil)
	_, sum := in.Run(Parse(DefaultTable(), data))
	assert.Equal(t, 1, sum.Barcodes)
	assert.Equal(t, 2, sum.Images)
	assert.Equal(t, 2, sum.GraphicsSinceReset)
	assert.Equal(t, 2, in.Context().Graphics.Counter)
}
