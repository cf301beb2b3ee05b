// internal/escpos/commands_graphics.go
package escpos

// The graphics table is keyed {fn}; the nested payload starts after fn

const (
	rasterFormat = iota
	columnFormat
)

func decodeGraphic(format int, width, height int, data []byte) *Image {
	if format == columnFormat {
		return newColumnImage(width, height, data)
	}
	return newRasterImage(width, height, data)
}

func graphicSize(format, width, height int) int {
	if format == columnFormat {
		return width * ((height + 7) / 8)
	}
	return (width + 7) / 8 * height
}

// defineGraphic covers the NV and download definitions:
// a kc1 kc2 b xL xH yL yH [c d1...dk]1...[c d1...dk]b. Only the first color
// plane is kept
func defineGraphic(storage StorageClass, format int) funcs {
	return funcs{apply: func(cmd *Command, ctx *Context) error {
		p := payload(cmd.Payload)
		k1, err := p.u8(1)
		if err != nil {
			return err
		}
		k2, err := p.u8(2)
		if err != nil {
			return err
		}
		width, err := p.u16(4)
		if err != nil {
			return err
		}
		height, err := p.u16(6)
		if err != nil {
			return err
		}
		data, err := p.span(9, graphicSize(format, width, height))
		if err != nil {
			return err
		}
		ctx.Graphics.StoreImage(ImageRef{K1: k1, K2: k2, Storage: storage}, decodeGraphic(format, width, height, data))
		return nil
	}}
}

// printGraphic covers kc1 kc2 x y
func printGraphic(storage StorageClass) funcs {
	return funcs{graphics: func(cmd *Command, ctx *Context) (Graphics, error) {
		p := payload(cmd.Payload)
		if _, err := p.span(0, 4); err != nil {
			return nil, err
		}
		img, ok := ctx.Graphics.Image(ImageRef{K1: p[0], K2: p[1], Storage: storage})
		if !ok {
			return nil, nil
		}
		return scaled(img, int(selector(p[2])), int(selector(p[3]))), nil
	}}
}

func deleteGraphics(storage StorageClass) funcs {
	return funcs{apply: func(_ *Command, ctx *Context) error {
		ctx.Graphics.DeleteAll(storage)
		return nil
	}}
}

func deleteGraphic(storage StorageClass) funcs {
	return funcs{apply: func(cmd *Command, ctx *Context) error {
		p := payload(cmd.Payload)
		if _, err := p.span(0, 2); err != nil {
			return err
		}
		ctx.Graphics.DeleteImage(ImageRef{K1: p[0], K2: p[1], Storage: storage})
		return nil
	}}
}

// storeBuffer covers a bx by c xL xH yL yH d1...dk
func storeBuffer(format int) funcs {
	return funcs{apply: func(cmd *Command, ctx *Context) error {
		p := payload(cmd.Payload)
		width, err := p.u16(4)
		if err != nil {
			return err
		}
		height, err := p.u16(6)
		if err != nil {
			return err
		}
		data, err := p.span(8, graphicSize(format, width, height))
		if err != nil {
			return err
		}
		img := decodeGraphic(format, width, height, data)
		img.ScaleX, img.ScaleY = int(selector(p[1])), int(selector(p[2]))
		ctx.Graphics.Buffer = img
		return nil
	}}
}

func setDensity() funcs {
	return funcs{apply: func(cmd *Command, ctx *Context) error {
		x, err := payload(cmd.Payload).u8(0)
		if err != nil {
			return err
		}
		switch x {
		case 50:
			ctx.Graphics.DPI = 180
		case 51:
			ctx.Graphics.DPI = 360
		}
		return nil
	}}
}

// printBuffer takes the print buffer when its context is applied, so the
// image survives the buffer being emptied
type printBuffer struct {
	img *Image
}

func (*printBuffer) Clone() Handler { return &printBuffer{} }

// ApplyContext implements ContextApplier
func (h *printBuffer) ApplyContext(_ *Command, ctx *Context) {
	h.img = ctx.Graphics.Buffer
	ctx.Graphics.Buffer = nil
}

// Graphics implements GraphicsExtractor
func (h *printBuffer) Graphics(_ *Command, ctx *Context) (Graphics, bool) {
	img := h.img
	if img == nil {
		img = ctx.Graphics.Buffer
	}
	if img == nil {
		return nil, false
	}
	return img, true
}

func graphicsOpcodes() []*Opcode {
	var ops []*Opcode
	add := func(name string, h Handler, fns ...byte) {
		for _, fn := range fns {
			ops = append(ops, &Opcode{
				Name:     name,
				Prefix:   []byte{fn},
				Category: CategoryGraphics,
				Kind:     PayloadCustom,
				Handler:  h,
			})
		}
	}
	add("NV_CAPACITY", noop{}, 0, 48)
	add("SET_DOT_DENSITY", setDensity(), 1, 49)
	add("PRINT_BUFFER", &printBuffer{}, 2, 50)
	add("NV_REMAINING", noop{}, 3, 51)
	add("DOWNLOAD_REMAINING", noop{}, 4, 52)
	add("NV_KEY_CODES", noop{}, 64)
	add("NV_DELETE_ALL", deleteGraphics(NonVolatile), 65)
	add("NV_DELETE", deleteGraphic(NonVolatile), 66)
	add("NV_DEFINE_RASTER", defineGraphic(NonVolatile, rasterFormat), 67)
	add("NV_DEFINE_COLUMN", defineGraphic(NonVolatile, columnFormat), 68)
	add("NV_PRINT", printGraphic(NonVolatile), 69)
	add("DOWNLOAD_KEY_CODES", noop{}, 80)
	add("DOWNLOAD_DELETE_ALL", deleteGraphics(Volatile), 81)
	add("DOWNLOAD_DELETE", deleteGraphic(Volatile), 82)
	add("DOWNLOAD_DEFINE_RASTER", defineGraphic(Volatile, rasterFormat), 83)
	add("DOWNLOAD_DEFINE_COLUMN", defineGraphic(Volatile, columnFormat), 84)
	add("DOWNLOAD_PRINT", printGraphic(Volatile), 85)
	add("BUFFER_STORE_RASTER", storeBuffer(rasterFormat), 112)
	add("BUFFER_STORE_COLUMN", storeBuffer(columnFormat), 113)
	return ops
}
