// internal/escpos/commands_barcode.go
package escpos

// barcode covers GS k. Function A (m 0-6) ends at NUL; function B
// (m 65-79) carries a length byte. Any other m ends the command at once
type barcode struct {
	want int
}

func (h *barcode) Clone() Handler { return &barcode{want: -1} }

// Accept implements ByteAcceptor
func (h *barcode) Accept(p *[]byte, b byte) bool {
	n := len(*p)
	if n == 0 {
		*p = append(*p, b)
		return true
	}
	m := (*p)[0]
	switch {
	case m <= 6:
		if (*p)[n-1] == NUL && n > 1 {
			return false
		}
		*p = append(*p, b)
		return true
	case m >= 65 && m <= 79:
		if n == 1 {
			*p = append(*p, b)
			h.want = int(b)
			return true
		}
		if n-2 >= h.want {
			return false
		}
		*p = append(*p, b)
		return true
	}
	return false
}

func (h *barcode) data(p payload) ([]byte, error) {
	m, err := p.u8(0)
	if err != nil {
		return nil, err
	}
	if m <= 6 {
		data, err := p.from(1)
		if err != nil {
			return nil, err
		}
		if n := len(data); n > 0 && data[n-1] == NUL {
			data = data[:n-1]
		}
		return data, nil
	}
	n, err := p.u8(1)
	if err != nil {
		return nil, err
	}
	return p.span(2, int(n))
}

// Graphics implements GraphicsExtractor
func (h *barcode) Graphics(cmd *Command, ctx *Context) (Graphics, bool) {
	p := payload(cmd.Payload)
	m, err := p.u8(0)
	if err != nil {
		return nil, false
	}
	name, ok := barcodeSymbologies[m]
	if !ok {
		return nil, false
	}
	data, err := h.data(p)
	if err != nil {
		return nil, false
	}
	return &Barcode{
		Symbology: name,
		Type:      m,
		Data:      append([]byte(nil), data...),
		Style:     ctx.Barcode,
	}, true
}

// Describe implements Describer
func (h *barcode) Describe(cmd *Command, _ *Context) string {
	p := payload(cmd.Payload)
	m, err := p.u8(0)
	if err != nil {
		return describeRaw(cmd)
	}
	name, ok := barcodeSymbologies[m]
	if !ok {
		return describeRaw(cmd)
	}
	data, err := h.data(p)
	if err != nil {
		return cmd.Name + " " + name + " (truncated)"
	}
	return cmd.Name + " " + name + " " + string(printable(data))
}

func printable(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		if c < 0x20 || c > 0x7e {
			c = '.'
		}
		out[i] = c
	}
	return out
}

func hriPosition() funcs {
	return applyByte(func(n byte, ctx *Context) {
		if pos := selector(n); pos <= 3 {
			ctx.Barcode.HRIPosition = HRIPosition(pos)
		}
	})
}

func hriFont() funcs {
	return applyByte(func(n byte, ctx *Context) { ctx.Barcode.HRIFont = selector(n) })
}

func barcodeHeight() funcs {
	return applyByte(func(n byte, ctx *Context) {
		if n > 0 {
			ctx.Barcode.Height = n
		}
	})
}

func barcodeWidth() funcs {
	return applyByte(func(n byte, ctx *Context) {
		if n >= 1 && n <= 6 || n >= 68 && n <= 76 {
			ctx.Barcode.Width = n
		}
	})
}
