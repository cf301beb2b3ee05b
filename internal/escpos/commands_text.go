// internal/escpos/commands_text.go
package escpos

// numeric parameters accept both binary (0, 1, 2) and ASCII ('0', '1', '2')
// forms
func selector(n byte) byte {
	if n >= '0' && n <= '9' {
		return n - '0'
	}
	return n
}

func enabled(n byte) bool { return n&1 == 1 }

func applyByte(set func(n byte, ctx *Context)) funcs {
	return funcs{apply: func(cmd *Command, ctx *Context) error {
		n, err := payload(cmd.Payload).u8(0)
		if err != nil {
			return err
		}
		set(n, ctx)
		return nil
	}}
}

func applyWord(set func(n int, ctx *Context)) funcs {
	return funcs{apply: func(cmd *Command, ctx *Context) error {
		n, err := payload(cmd.Payload).u16(0)
		if err != nil {
			return err
		}
		set(n, ctx)
		return nil
	}}
}

func applyNone(set func(ctx *Context)) funcs {
	return funcs{apply: func(_ *Command, ctx *Context) error {
		set(ctx)
		return nil
	}}
}

// defaultText handles runs of bytes no opcode claimed
func defaultText() funcs {
	return funcs{text: func(cmd *Command, ctx *Context) (string, error) {
		return DecodeText(ctx.Text.CodePage, cmd.Payload), nil
	}}
}

func literal(s string) funcs {
	return funcs{text: func(*Command, *Context) (string, error) { return s, nil }}
}

func selectPrintMode() funcs {
	return applyByte(func(n byte, ctx *Context) {
		ctx.Text.Font = n & 0x01
		ctx.Text.Bold = n&0x08 != 0
		ctx.Text.HeightMult = 1
		if n&0x10 != 0 {
			ctx.Text.HeightMult = 2
		}
		ctx.Text.WidthMult = 1
		if n&0x20 != 0 {
			ctx.Text.WidthMult = 2
		}
		ctx.Text.Underline = 0
		if n&0x80 != 0 {
			ctx.Text.Underline = 1
		}
	})
}

func selectCharacterSize() funcs {
	return applyByte(func(n byte, ctx *Context) {
		ctx.Text.WidthMult = (n>>4)&0x07 + 1
		ctx.Text.HeightMult = n&0x07 + 1
	})
}

func setUnderline() funcs {
	return applyByte(func(n byte, ctx *Context) {
		if u := selector(n); u <= 2 {
			ctx.Text.Underline = u
		}
	})
}

func setJustify() funcs {
	return applyByte(func(n byte, ctx *Context) {
		switch selector(n) {
		case 0:
			ctx.Text.Justify = JustifyLeft
		case 1:
			ctx.Text.Justify = JustifyCenter
		case 2:
			ctx.Text.Justify = JustifyRight
		}
	})
}

func selectFont() funcs {
	return applyByte(func(n byte, ctx *Context) {
		if f := selector(n); f <= 4 {
			ctx.Text.Font = f
		}
	})
}

func setLineSpacing() funcs {
	return applyByte(func(n byte, ctx *Context) { ctx.Text.LineSpacing = int(n) })
}

func setPageArea() funcs {
	return funcs{apply: func(cmd *Command, ctx *Context) error {
		p := payload(cmd.Payload)
		var area [4]int
		for i := range area {
			v, err := p.u16(i * 2)
			if err != nil {
				return err
			}
			area[i] = v
		}
		ctx.Text.PageArea = area
		return nil
	}}
}

func setMotionUnits() funcs {
	return funcs{apply: func(cmd *Command, ctx *Context) error {
		p := payload(cmd.Payload)
		x, err := p.u8(0)
		if err != nil {
			return err
		}
		y, err := p.u8(1)
		if err != nil {
			return err
		}
		ctx.Text.MotionUnitX = int(x)
		ctx.Text.MotionUnitY = int(y)
		return nil
	}}
}

func kanjiSpacing() funcs {
	return funcs{apply: func(cmd *Command, ctx *Context) error {
		p := payload(cmd.Payload)
		left, err := p.u8(0)
		if err != nil {
			return err
		}
		right, err := p.u8(1)
		if err != nil {
			return err
		}
		ctx.Text.KanjiSpacingLeft = left
		ctx.Text.KanjiSpacingRight = right
		return nil
	}}
}
