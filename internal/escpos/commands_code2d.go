// internal/escpos/commands_code2d.go
package escpos

// The code2d table is keyed {cn, fn}; the nested payload starts after fn

func code2DSetting(set func(p payload, ctx *Context) error) funcs {
	return funcs{apply: func(cmd *Command, ctx *Context) error {
		return set(payload(cmd.Payload), ctx)
	}}
}

func code2DByte(set func(n byte, ctx *Context)) funcs {
	return code2DSetting(func(p payload, ctx *Context) error {
		n, err := p.u8(0)
		if err != nil {
			return err
		}
		set(n, ctx)
		return nil
	})
}

// storeSymbol saves the symbol data that follows the leading m byte
func storeSymbol(sym Symbology) funcs {
	return code2DSetting(func(p payload, ctx *Context) error {
		data, err := p.from(1)
		if err != nil {
			return err
		}
		ctx.Code2D.Stored[sym] = append([]byte(nil), data...)
		return nil
	})
}

func printSymbol(sym Symbology) funcs {
	return funcs{graphics: func(_ *Command, ctx *Context) (Graphics, error) {
		data, ok := ctx.Code2D.Stored[sym]
		if !ok {
			return nil, nil
		}
		code := &Code2D{Symbology: sym, Data: append([]byte(nil), data...)}
		c := ctx.Code2D
		switch sym {
		case SymbologyQR:
			code.Model, code.Size, code.ECC = c.QR.Model, c.QR.Size, c.QR.ECC
		case SymbologyPDF417:
			code.Size, code.ECC = c.PDF417.Width, c.PDF417.ECC
			code.Columns, code.Rows = c.PDF417.Columns, c.PDF417.Rows
		case SymbologyMaxiCode:
			code.Model = c.MaxiCode.Mode
		case SymbologyGS1DataBar:
			code.Size = c.GS1.Width
		case SymbologyComposite:
			code.Size = c.Composite.Width
		case SymbologyAztec:
			code.Size, code.ECC = c.Aztec.Size, c.Aztec.ECC
		case SymbologyDataMatrix:
			code.Size = c.DataMatrix.Size
			code.Columns, code.Rows = c.DataMatrix.Columns, c.DataMatrix.Rows
		}
		return code, nil
	}}
}

func qrModel(n byte) int {
	switch n {
	case 49:
		return 1
	case 50:
		return 2
	case 51:
		return 3
	}
	return 0
}

func code2DOpcodes() []*Opcode {
	var ops []*Opcode
	add := func(cn, fn byte, name string, h Handler) {
		ops = append(ops, &Opcode{
			Name:     name,
			Prefix:   []byte{cn, fn},
			Category: CategoryGraphics,
			Kind:     PayloadCustom,
			Handler:  h,
		})
	}

	// PDF417
	add(48, 65, "PDF417_COLUMNS", code2DByte(func(n byte, ctx *Context) { ctx.Code2D.PDF417.Columns = int(n) }))
	add(48, 66, "PDF417_ROWS", code2DByte(func(n byte, ctx *Context) { ctx.Code2D.PDF417.Rows = int(n) }))
	add(48, 67, "PDF417_WIDTH", code2DByte(func(n byte, ctx *Context) { ctx.Code2D.PDF417.Width = int(n) }))
	add(48, 68, "PDF417_ROW_HEIGHT", code2DByte(func(n byte, ctx *Context) { ctx.Code2D.PDF417.RowHeight = int(n) }))
	add(48, 69, "PDF417_ECC", code2DSetting(func(p payload, ctx *Context) error {
		m, err := p.u8(0)
		if err != nil {
			return err
		}
		n, err := p.u8(1)
		if err != nil {
			return err
		}
		ctx.Code2D.PDF417.ECCMode, ctx.Code2D.PDF417.ECC = int(m), int(n)
		return nil
	}))
	add(48, 70, "PDF417_OPTIONS", code2DByte(func(n byte, ctx *Context) { ctx.Code2D.PDF417.Truncated = n == 1 }))
	add(48, 80, "PDF417_STORE", storeSymbol(SymbologyPDF417))
	add(48, 81, "PDF417_PRINT", printSymbol(SymbologyPDF417))
	add(48, 82, "PDF417_SIZE_INFO", noop{})

	// QR Code
	add(49, 65, "QR_MODEL", code2DByte(func(n byte, ctx *Context) {
		if m := qrModel(n); m != 0 {
			ctx.Code2D.QR.Model = m
		}
	}))
	add(49, 67, "QR_SIZE", code2DByte(func(n byte, ctx *Context) { ctx.Code2D.QR.Size = int(n) }))
	add(49, 69, "QR_ECC", code2DByte(func(n byte, ctx *Context) {
		if n >= 48 && n <= 51 {
			ctx.Code2D.QR.ECC = int(n - 48)
		}
	}))
	add(49, 80, "QR_STORE", storeSymbol(SymbologyQR))
	add(49, 81, "QR_PRINT", printSymbol(SymbologyQR))
	add(49, 82, "QR_SIZE_INFO", noop{})

	// MaxiCode
	add(50, 65, "MAXICODE_MODE", code2DByte(func(n byte, ctx *Context) { ctx.Code2D.MaxiCode.Mode = int(selector(n)) }))
	add(50, 80, "MAXICODE_STORE", storeSymbol(SymbologyMaxiCode))
	add(50, 81, "MAXICODE_PRINT", printSymbol(SymbologyMaxiCode))
	add(50, 82, "MAXICODE_SIZE_INFO", noop{})

	// GS1 DataBar
	add(51, 67, "GS1_WIDTH", code2DByte(func(n byte, ctx *Context) { ctx.Code2D.GS1.Width = int(n) }))
	add(51, 71, "GS1_MAX_WIDTH", code2DSetting(func(p payload, ctx *Context) error {
		n, err := p.u16(0)
		if err != nil {
			return err
		}
		ctx.Code2D.GS1.MaxWidth = n
		return nil
	}))
	add(51, 80, "GS1_STORE", storeSymbol(SymbologyGS1DataBar))
	add(51, 81, "GS1_PRINT", printSymbol(SymbologyGS1DataBar))
	add(51, 82, "GS1_SIZE_INFO", noop{})

	// Composite
	add(52, 67, "COMPOSITE_WIDTH", code2DByte(func(n byte, ctx *Context) { ctx.Code2D.Composite.Width = int(n) }))
	add(52, 71, "COMPOSITE_MAX_WIDTH", code2DSetting(func(p payload, ctx *Context) error {
		n, err := p.u16(0)
		if err != nil {
			return err
		}
		ctx.Code2D.Composite.MaxWidth = n
		return nil
	}))
	add(52, 72, "COMPOSITE_HRI_FONT", code2DByte(func(n byte, ctx *Context) { ctx.Code2D.Composite.HRIFont = n }))
	add(52, 80, "COMPOSITE_STORE", storeSymbol(SymbologyComposite))
	add(52, 81, "COMPOSITE_PRINT", printSymbol(SymbologyComposite))
	add(52, 82, "COMPOSITE_SIZE_INFO", noop{})

	// Aztec Code
	add(53, 66, "AZTEC_MODE", code2DSetting(func(p payload, ctx *Context) error {
		kind, err := p.u8(0)
		if err != nil {
			return err
		}
		layers, err := p.u8(1)
		if err != nil {
			return err
		}
		ctx.Code2D.Aztec.Compact = selector(kind) == 1
		ctx.Code2D.Aztec.Layers = int(layers)
		return nil
	}))
	add(53, 67, "AZTEC_SIZE", code2DByte(func(n byte, ctx *Context) { ctx.Code2D.Aztec.Size = int(n) }))
	add(53, 69, "AZTEC_ECC", code2DByte(func(n byte, ctx *Context) { ctx.Code2D.Aztec.ECC = int(n) }))
	add(53, 80, "AZTEC_STORE", storeSymbol(SymbologyAztec))
	add(53, 81, "AZTEC_PRINT", printSymbol(SymbologyAztec))
	add(53, 82, "AZTEC_SIZE_INFO", noop{})

	// Data Matrix
	add(54, 66, "DATAMATRIX_TYPE", code2DSetting(func(p payload, ctx *Context) error {
		kind, err := p.u8(0)
		if err != nil {
			return err
		}
		cols, err := p.u8(1)
		if err != nil {
			return err
		}
		rows, err := p.u8(2)
		if err != nil {
			return err
		}
		ctx.Code2D.DataMatrix.Rectangular = selector(kind) == 1
		ctx.Code2D.DataMatrix.Columns, ctx.Code2D.DataMatrix.Rows = int(cols), int(rows)
		return nil
	}))
	add(54, 67, "DATAMATRIX_SIZE", code2DByte(func(n byte, ctx *Context) { ctx.Code2D.DataMatrix.Size = int(n) }))
	add(54, 80, "DATAMATRIX_STORE", storeSymbol(SymbologyDataMatrix))
	add(54, 81, "DATAMATRIX_PRINT", printSymbol(SymbologyDataMatrix))
	add(54, 82, "DATAMATRIX_SIZE_INFO", noop{})

	return ops
}
