// internal/escpos/commands_control.go
package escpos

func emit(kind DeviceCommandKind) funcs {
	return funcs{device: func(*Command, *Context) ([]DeviceCommand, error) {
		return []DeviceCommand{{Kind: kind}}, nil
	}}
}

func emitByte(kind DeviceCommandKind, scale int) funcs {
	return funcs{device: func(cmd *Command, _ *Context) ([]DeviceCommand, error) {
		n, err := payload(cmd.Payload).u8(0)
		if err != nil {
			return nil, err
		}
		return []DeviceCommand{{Kind: kind, Value: int(n) * scale}}, nil
	}}
}

func initialize() funcs {
	return emit(DeviceInitialize)
}

// formFeed ends page mode when it is active; in standard mode it only
// finishes the current print job
func formFeed() funcs {
	return funcs{
		apply: func(_ *Command, ctx *Context) error {
			ctx.Text.PageMode = false
			return nil
		},
		device: func(*Command, *Context) ([]DeviceCommand, error) {
			return []DeviceCommand{{Kind: DeviceEndPrint}}, nil
		},
	}
}

func pageMode(on bool) funcs {
	kind := DeviceEndPageMode
	if on {
		kind = DeviceBeginPageMode
	}
	return funcs{
		apply: func(_ *Command, ctx *Context) error {
			ctx.Text.PageMode = on
			return nil
		},
		device: func(*Command, *Context) ([]DeviceCommand, error) {
			return []DeviceCommand{{Kind: kind}}, nil
		},
	}
}

func moveAbsolute(kind DeviceCommandKind) funcs {
	return funcs{device: func(cmd *Command, _ *Context) ([]DeviceCommand, error) {
		n, err := payload(cmd.Payload).u16(0)
		if err != nil {
			return nil, err
		}
		return []DeviceCommand{{Kind: kind, Value: n}}, nil
	}}
}

func moveRelative(kind DeviceCommandKind) funcs {
	return funcs{device: func(cmd *Command, _ *Context) ([]DeviceCommand, error) {
		n, err := payload(cmd.Payload).i16(0)
		if err != nil {
			return nil, err
		}
		return []DeviceCommand{{Kind: kind, Value: n}}, nil
	}}
}

func justifyDevice() funcs {
	h := setJustify()
	h.device = func(_ *Command, ctx *Context) ([]DeviceCommand, error) {
		return []DeviceCommand{{Kind: DeviceJustify, Value: int(ctx.Text.Justify)}}, nil
	}
	return h
}

func reverseFeed(kind DeviceCommandKind) funcs {
	return funcs{device: func(cmd *Command, _ *Context) ([]DeviceCommand, error) {
		n, err := payload(cmd.Payload).u8(0)
		if err != nil {
			return nil, err
		}
		return []DeviceCommand{{Kind: kind, Value: -int(n)}}, nil
	}}
}

// pulse covers ESC p m t1 t2; times are in units of 2 ms
func pulse() funcs {
	return funcs{device: func(cmd *Command, _ *Context) ([]DeviceCommand, error) {
		p := payload(cmd.Payload)
		m, err := p.u8(0)
		if err != nil {
			return nil, err
		}
		on, err := p.u8(1)
		if err != nil {
			return nil, err
		}
		return []DeviceCommand{{Kind: DevicePulse, Value: int(selector(m)), Aux: int(on) * 2}}, nil
	}}
}

// realtimePulse covers DLE DC4 1 m t; t is in units of 100 ms
func realtimePulse() funcs {
	return funcs{device: func(cmd *Command, _ *Context) ([]DeviceCommand, error) {
		p := payload(cmd.Payload)
		m, err := p.u8(0)
		if err != nil {
			return nil, err
		}
		t, err := p.u8(1)
		if err != nil {
			return nil, err
		}
		return []DeviceCommand{{Kind: DevicePulse, Value: int(m), Aux: int(t) * 100}}, nil
	}}
}

func statusRequest() funcs {
	return emitByte(DeviceStatusRequest, 1)
}

// cutHandler covers GS V, whose arity depends on the function byte
type cutHandler struct {
	funcs
}

func newCut() *cutHandler {
	h := &cutHandler{}
	h.device = func(cmd *Command, _ *Context) ([]DeviceCommand, error) {
		p := payload(cmd.Payload)
		m, err := p.u8(0)
		if err != nil {
			return nil, err
		}
		var out []DeviceCommand
		if cutFeeds(m) {
			n, err := p.u8(1)
			if err != nil {
				return nil, err
			}
			out = append(out, DeviceCommand{Kind: DeviceFeedDots, Value: int(n)})
		}
		kind := DeviceFullCut
		switch m {
		case 1, 49, 66, 98, 104:
			kind = DevicePartialCut
		}
		return append(out, DeviceCommand{Kind: kind}), nil
	}
	return h
}

func cutFeeds(m byte) bool {
	switch m {
	case 65, 66, 97, 98, 103, 104:
		return true
	}
	return false
}

func (h *cutHandler) Clone() Handler { return &cutHandler{funcs: h.funcs} }

// Accept implements ByteAcceptor
func (h *cutHandler) Accept(p *[]byte, b byte) bool {
	switch len(*p) {
	case 0:
	case 1:
		if !cutFeeds((*p)[0]) {
			return false
		}
	default:
		return false
	}
	*p = append(*p, b)
	return true
}

// lengthPrefixed absorbs a pL pH [data] function block the decoder does not
// interpret further
type lengthPrefixed struct {
	funcs
	want int
}

func newLengthPrefixed() *lengthPrefixed {
	return &lengthPrefixed{want: -1}
}

func (h *lengthPrefixed) Clone() Handler {
	return &lengthPrefixed{funcs: h.funcs, want: -1}
}

// Accept implements ByteAcceptor
func (h *lengthPrefixed) Accept(p *[]byte, b byte) bool {
	if h.want >= 0 && len(*p) >= h.want+2 {
		return false
	}
	*p = append(*p, b)
	if len(*p) == 2 {
		h.want = int((*p)[0]) | int((*p)[1])<<8
	}
	return true
}

// drawing covers GS ( Q: pL pH fn x1 y1 x2 y2 style... with 16-bit
// coordinates. fn 48 draws a line, fn 49 a rectangle
func newDrawing() *lengthPrefixed {
	h := newLengthPrefixed()
	h.graphics = func(cmd *Command, _ *Context) (Graphics, error) {
		p := payload(cmd.Payload)
		fn, err := p.u8(2)
		if err != nil {
			return nil, err
		}
		var c [4]int
		for i := range c {
			if c[i], err = p.u16(3 + i*2); err != nil {
				return nil, err
			}
		}
		style, err := p.u8(11)
		if err != nil {
			return nil, err
		}
		switch fn {
		case 48:
			return &Line{X1: c[0], Y1: c[1], X2: c[2], Y2: c[3], Style: style}, nil
		case 49:
			fill, _ := p.u8(12)
			return &Rectangle{X1: c[0], Y1: c[1], X2: c[2], Y2: c[3], Style: style, Fill: fill}, nil
		}
		return nil, nil
	}
	return h
}

// userCharacters covers ESC & y c1 c2 [x d1...d(y*x)]...
type userCharacters struct {
	funcs
	height    int
	remaining int
	pending   int
	chars     int
}

func (h *userCharacters) Clone() Handler { return &userCharacters{funcs: h.funcs} }

// Accept implements ByteAcceptor
func (h *userCharacters) Accept(p *[]byte, b byte) bool {
	n := len(*p)
	switch {
	case n < 3:
		*p = append(*p, b)
		if n == 0 {
			h.height = int(b)
		}
		if n == 2 {
			h.chars = int(b) - int((*p)[1]) + 1
			if h.chars < 0 {
				h.chars = 0
			}
		}
		return true
	case h.pending > 0:
		h.pending--
		*p = append(*p, b)
		return true
	case h.chars > 0:
		h.chars--
		h.pending = int(b) * h.height
		*p = append(*p, b)
		return true
	}
	return false
}

// nvBitImages covers FS q n [xL xH yL yH d1...dk]1...[...]n, storing each
// image as non-volatile key {i, 0}
type nvBitImages struct {
	count   int
	header  int
	pending int
	seen    int
}

func (h *nvBitImages) Clone() Handler { return &nvBitImages{} }

// Accept implements ByteAcceptor
func (h *nvBitImages) Accept(p *[]byte, b byte) bool {
	if len(*p) == 0 {
		*p = append(*p, b)
		h.count = int(b)
		return true
	}
	switch {
	case h.header > 0:
		*p = append(*p, b)
		h.header--
		if h.header == 0 {
			q := (*p)[len(*p)-4:]
			x := int(q[0]) | int(q[1])<<8
			y := int(q[2]) | int(q[3])<<8
			h.pending = x * y * 8
			if h.pending == 0 {
				h.seen++
			}
		}
		return true
	case h.pending > 0:
		*p = append(*p, b)
		h.pending--
		if h.pending == 0 {
			h.seen++
		}
		return true
	case h.seen < h.count:
		*p = append(*p, b)
		h.header = 3
		return true
	}
	return false
}

// ApplyContext implements ContextApplier
func (h *nvBitImages) ApplyContext(cmd *Command, ctx *Context) {
	p := payload(cmd.Payload)
	n, err := p.u8(0)
	if err != nil {
		return
	}
	off := 1
	for i := 1; i <= int(n); i++ {
		x, err := p.u16(off)
		if err != nil {
			return
		}
		y, err := p.u16(off + 2)
		if err != nil {
			return
		}
		off += 4
		data, err := p.span(off, x*y*8)
		if err != nil {
			return
		}
		off += len(data)
		ctx.Graphics.StoreImage(ImageRef{K1: byte(i), Storage: NonVolatile}, newColumnImage(x*8, y*8, data))
	}
}
