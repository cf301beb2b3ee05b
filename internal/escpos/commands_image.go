// internal/escpos/commands_image.go
package escpos

// bitImage covers ESC * m nL nH d1...dk. Modes 0 and 1 send one byte per
// column (8 dots), modes 32 and 33 send three (24 dots)
type bitImage struct{}

func (bitImage) Clone() Handler { return bitImage{} }

func bitImageSize(p []byte) (columns, perColumn int) {
	columns = int(p[1]) | int(p[2])<<8
	perColumn = 1
	if p[0] >= 32 {
		perColumn = 3
	}
	return columns, perColumn
}

// Accept implements ByteAcceptor
func (bitImage) Accept(p *[]byte, b byte) bool {
	if len(*p) < 3 {
		*p = append(*p, b)
		return true
	}
	columns, perColumn := bitImageSize(*p)
	if len(*p)-3 >= columns*perColumn {
		return false
	}
	*p = append(*p, b)
	return true
}

// Graphics implements GraphicsExtractor
func (bitImage) Graphics(cmd *Command, _ *Context) (Graphics, bool) {
	p := payload(cmd.Payload)
	if len(p) < 3 {
		return nil, false
	}
	columns, perColumn := bitImageSize(p)
	data, err := p.span(3, columns*perColumn)
	if err != nil {
		return nil, false
	}
	img := newColumnImage(columns, perColumn*8, data)
	if p[0] == 0 || p[0] == 32 {
		img.ScaleX = 2
	}
	if perColumn == 1 {
		img.ScaleY = 3
	}
	return img, true
}

// rasterImage covers GS v 0 m xL xH yL yH d1...dk with k = x*y
type rasterImage struct{}

func (rasterImage) Clone() Handler { return rasterImage{} }

func rasterSize(p []byte) (stride, rows int) {
	return int(p[1]) | int(p[2])<<8, int(p[3]) | int(p[4])<<8
}

// Accept implements ByteAcceptor
func (rasterImage) Accept(p *[]byte, b byte) bool {
	if len(*p) < 5 {
		*p = append(*p, b)
		return true
	}
	stride, rows := rasterSize(*p)
	if len(*p)-5 >= stride*rows {
		return false
	}
	*p = append(*p, b)
	return true
}

// Graphics implements GraphicsExtractor
func (rasterImage) Graphics(cmd *Command, _ *Context) (Graphics, bool) {
	p := payload(cmd.Payload)
	if len(p) < 5 {
		return nil, false
	}
	stride, rows := rasterSize(p)
	data, err := p.span(5, stride*rows)
	if err != nil {
		return nil, false
	}
	img := newRasterImage(stride*8, rows, data)
	m := selector(p[0])
	if m&1 != 0 {
		img.ScaleX = 2
	}
	if m&2 != 0 {
		img.ScaleY = 2
	}
	return img, true
}

// downloadImage covers GS * x y d1...d(x*y*8): a column-format image of
// x*8 by y*8 dots kept until the next definition or reset
type downloadImage struct{}

func (downloadImage) Clone() Handler { return downloadImage{} }

// Accept implements ByteAcceptor
func (downloadImage) Accept(p *[]byte, b byte) bool {
	if len(*p) < 2 {
		*p = append(*p, b)
		return true
	}
	if len(*p)-2 >= int((*p)[0])*int((*p)[1])*8 {
		return false
	}
	*p = append(*p, b)
	return true
}

// ApplyContext implements ContextApplier
func (downloadImage) ApplyContext(cmd *Command, ctx *Context) {
	p := payload(cmd.Payload)
	if len(p) < 2 {
		return
	}
	x, y := int(p[0]), int(p[1])
	data, err := p.span(2, x*y*8)
	if err != nil {
		return
	}
	ctx.Graphics.Downloaded = newColumnImage(x*8, y*8, data)
}

func scaled(img *Image, sx, sy int) *Image {
	out := *img
	out.ScaleX, out.ScaleY = sx, sy
	return &out
}

// printDownloaded covers GS / m
func printDownloaded() funcs {
	return funcs{graphics: func(cmd *Command, ctx *Context) (Graphics, error) {
		m, err := payload(cmd.Payload).u8(0)
		if err != nil {
			return nil, err
		}
		if ctx.Graphics.Downloaded == nil {
			return nil, nil
		}
		m = selector(m)
		return scaled(ctx.Graphics.Downloaded, 1+int(m&1), 1+int(m>>1&1)), nil
	}}
}

// printNVBitImage covers FS p n m
func printNVBitImage() funcs {
	return funcs{graphics: func(cmd *Command, ctx *Context) (Graphics, error) {
		p := payload(cmd.Payload)
		n, err := p.u8(0)
		if err != nil {
			return nil, err
		}
		m, err := p.u8(1)
		if err != nil {
			return nil, err
		}
		img, ok := ctx.Graphics.Image(ImageRef{K1: n, Storage: NonVolatile})
		if !ok {
			return nil, nil
		}
		m = selector(m)
		return scaled(img, 1+int(m&1), 1+int(m>>1&1)), nil
	}}
}
