// internal/receipt/builder.go
package receipt

import (
	"bytes"
	"fmt"
)

// Align is a line justification
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// TextOptions style one printed line
type TextOptions struct {
	Bold      bool
	Underline bool
	Align     Align
}

// Builder assembles an ESC/POS byte stream. Methods chain; the first error
// sticks and is returned by Bytes
type Builder struct {
	buf bytes.Buffer
	err error
}

// New returns a builder that starts with ESC @
func New() *Builder {
	b := &Builder{}
	b.write(cmdInitialize)
	return b
}

func (b *Builder) write(parts ...[]byte) *Builder {
	for _, p := range parts {
		b.buf.Write(p)
	}
	return b
}

func (b *Builder) fail(err error) *Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}

// Raw appends bytes unchanged
func (b *Builder) Raw(p []byte) *Builder { return b.write(p) }

// Bold switches emphasized mode
func (b *Builder) Bold(on bool) *Builder {
	if on {
		return b.write(cmdBoldOn)
	}
	return b.write(cmdBoldOff)
}

// Underline switches one-dot underline
func (b *Builder) Underline(on bool) *Builder {
	if on {
		return b.write(cmdUnderlineOn)
	}
	return b.write(cmdUnderlineOff)
}

// Align selects justification
func (b *Builder) Align(a Align) *Builder {
	switch a {
	case AlignCenter:
		return b.write(cmdAlignCenter)
	case AlignRight:
		return b.write(cmdAlignRight)
	default:
		return b.write(cmdAlignLeft)
	}
}

// Size selects character magnification, 1 to 8 in each direction
func (b *Builder) Size(width, height int) *Builder {
	if width < 1 || width > 8 || height < 1 || height > 8 {
		return b.fail(fmt.Errorf("character size %dx%d out of range", width, height))
	}
	return b.write([]byte{0x1D, 0x21, byte((width-1)<<4 | (height - 1))})
}

// CodePage selects the character code table
func (b *Builder) CodePage(page byte) *Builder {
	return b.write([]byte{0x1B, 0x74, page})
}

// PrintWidth sets the print area width in dots
func (b *Builder) PrintWidth(dots int) *Builder {
	return b.write([]byte{0x1D, 0x57, byte(dots), byte(dots >> 8)})
}

// Text appends raw text bytes
func (b *Builder) Text(s string) *Builder { return b.write([]byte(s)) }

// Line prints one styled line and restores the default style
func (b *Builder) Line(s string, opts TextOptions) *Builder {
	if opts.Bold {
		b.write(cmdBoldOn)
	}
	if opts.Underline {
		b.write(cmdUnderlineOn)
	}
	b.Align(opts.Align)
	b.write([]byte(s), cmdLineFeed)

	if opts.Bold || opts.Underline {
		b.write(cmdResetMode)
	}
	return b.write(cmdAlignLeft)
}

// Feed prints and feeds n lines
func (b *Builder) Feed(lines int) *Builder {
	if lines < 0 || lines > 255 {
		return b.fail(fmt.Errorf("feed of %d lines out of range", lines))
	}
	return b.write(cmdFeedLines, []byte{byte(lines)})
}

// FormFeed ends the page
func (b *Builder) FormFeed() *Builder { return b.write(cmdFormFeed) }

// Cut cuts the paper
func (b *Builder) Cut(partial bool) *Builder {
	if partial {
		return b.write(cmdCutPartial)
	}
	return b.write(cmdCutFull)
}

// OpenDrawer pulses drawer kick-out pin 2 or 5 for 50 ms
func (b *Builder) OpenDrawer(pin int) *Builder {
	var m byte
	switch pin {
	case 2:
		m = 0
	case 5:
		m = 1
	default:
		return b.fail(fmt.Errorf("invalid drawer pin %d", pin))
	}
	return b.write(cmdPulse, []byte{m, 0x19, 0x19})
}

// StatusRequest asks for the real-time printer status
func (b *Builder) StatusRequest() *Builder { return b.write(cmdStatusRequest) }

// Barcode prints a 1D barcode. Function A systems are NUL-terminated,
// function B systems are length-prefixed
func (b *Builder) Barcode(system byte, data string) *Builder {
	switch {
	case system <= BarcodeCODABAR:
		if bytes.IndexByte([]byte(data), 0) >= 0 {
			return b.fail(fmt.Errorf("barcode data contains NUL"))
		}
		return b.write([]byte{0x1D, 0x6B, system}, []byte(data), []byte{0x00})
	case system >= 65 && system <= 79:
		if len(data) > 255 {
			return b.fail(fmt.Errorf("barcode data of %d bytes too long", len(data)))
		}
		return b.write([]byte{0x1D, 0x6B, system, byte(len(data))}, []byte(data))
	}
	return b.fail(fmt.Errorf("unsupported barcode system %d", system))
}

// code2D appends one GS ( k function
func (b *Builder) code2D(cn, fn byte, params []byte) *Builder {
	n := len(params) + 2
	if n > 0xFFFF {
		return b.fail(fmt.Errorf("2D symbol data of %d bytes too long", len(params)))
	}
	return b.write([]byte{0x1D, 0x28, 0x6B, byte(n), byte(n >> 8), cn, fn}, params)
}

// QRCode stores and prints a model 2 QR Code. size is the module size in
// dots, ecc is 0 (L) to 3 (H)
func (b *Builder) QRCode(data string, size, ecc int) *Builder {
	if size < 1 || size > 16 || ecc < 0 || ecc > 3 {
		return b.fail(fmt.Errorf("invalid QR size %d or ecc %d", size, ecc))
	}
	b.code2D(49, 65, []byte{50, 0})
	b.code2D(49, 67, []byte{byte(size)})
	b.code2D(49, 69, []byte{byte(48 + ecc)})
	b.code2D(49, 80, append([]byte{48}, data...))
	return b.code2D(49, 81, []byte{48})
}

// Len is the number of bytes built so far
func (b *Builder) Len() int { return b.buf.Len() }

// Bytes returns the stream, or the first error a method recorded
func (b *Builder) Bytes() ([]byte, error) {
	if b.err != nil {
		return nil, b.err
	}
	return bytes.Clone(b.buf.Bytes()), nil
}

// Sample builds a short demonstration receipt
func Sample() []byte {
	b := New().
		CodePage(CodePagePC858).
		Size(2, 2).
		Line("CORNER STORE", TextOptions{Bold: true, Align: AlignCenter}).
		Size(1, 1).
		Line("12 Market Street", TextOptions{Align: AlignCenter}).
		Feed(1).
		Line("Coffee             2.50", TextOptions{}).
		Line("Croissant          1.80", TextOptions{}).
		Line("TOTAL              4.30", TextOptions{Bold: true, Underline: true}).
		Feed(1).
		Barcode(BarcodeCODE128, "{B0001234").
		QRCode("https://example.com/r/0001234", 4, 1).
		Feed(3).
		Cut(true).
		OpenDrawer(2)

	out, err := b.Bytes()
	if err != nil {
		panic(err)
	}
	return out
}
