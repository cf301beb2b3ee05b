// internal/receipt/builder_test.go
package receipt

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"escpos-service/internal/escpos"
)

func names(cmds []*escpos.Command) []string {
	out := make([]string, 0, len(cmds))
	for _, cmd := range cmds {
		name := cmd.Name
		if sc, ok := cmd.Handler().(*escpos.Subcommand); ok && sc.Nested() != nil {
			name += "/" + sc.Nested().Name
		}
		out = append(out, name)
	}
	return out
}

func TestLine(t *testing.T) {
	b := New().Line("Hi", TextOptions{Bold: true, Align: AlignCenter})
	got, err := b.Bytes()
	require.NoError(t, err)

	want := []byte("\x1b@\x1bE\x01\x1ba\x01Hi\n\x1b!\x00\x1ba\x00")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Line() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuilderDecodes(t *testing.T) {
	data, err := New().
		Line("Total", TextOptions{Underline: true}).
		Barcode(BarcodeCODE39, "ABC").
		Barcode(BarcodeCODE128, "{B42").
		QRCode("hello", 3, 0).
		Feed(2).
		Cut(false).
		Bytes()
	require.NoError(t, err)

	cmds := escpos.Parse(escpos.DefaultTable(), data)
	want := []string{
		"INITIALIZE",
		"UNDERLINE", "JUSTIFY", "TEXT", "LINE_FEED", "PRINT_MODE", "JUSTIFY",
		"BARCODE", "BARCODE",
		"CODE_2D/QR_MODEL", "CODE_2D/QR_SIZE", "CODE_2D/QR_ECC", "CODE_2D/QR_STORE", "CODE_2D/QR_PRINT",
		"FEED_LINES", "CUT",
	}
	if diff := cmp.Diff(want, names(cmds)); diff != "" {
		t.Errorf("decoded commands mismatch (-want +got):\n%s", diff)
	}
}

func TestSample(t *testing.T) {
	_, _, sum := escpos.Interpret(escpos.DefaultTable(), Sample())

	assert.Zero(t, sum.Unknown)
	assert.Equal(t, 1, sum.Barcodes)
	assert.Equal(t, 1, sum.Codes2D)
	assert.Equal(t, 1, sum.Cuts)
	assert.Contains(t, sum.Text, "CORNER STORE")
	assert.Contains(t, sum.Text, "TOTAL")
}

func TestBuilderErrors(t *testing.T) {
	tests := []struct {
		name  string
		build func(*Builder) *Builder
	}{
		{"size", func(b *Builder) *Builder { return b.Size(9, 1) }},
		{"feed", func(b *Builder) *Builder { return b.Feed(300) }},
		{"drawer pin", func(b *Builder) *Builder { return b.OpenDrawer(3) }},
		{"barcode nul", func(b *Builder) *Builder { return b.Barcode(BarcodeCODE39, "A\x00") }},
		{"barcode system", func(b *Builder) *Builder { return b.Barcode(40, "A") }},
		{"qr ecc", func(b *Builder) *Builder { return b.QRCode("x", 3, 4) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.build(New()).Cut(false).Bytes()
			assert.Error(t, err)
		})
	}
}
