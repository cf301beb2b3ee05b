// internal/escpos/escpos_table.go
package escpos

// DefaultTableName is the table used when a caller names none
const DefaultTableName = "escpos"

var defaultOpcode = &Opcode{
	Name:     "TEXT",
	Category: CategoryText,
	Kind:     PayloadText,
	Handler:  defaultText(),
}

var unknownOpcode = &Opcode{
	Name:     "UNKNOWN",
	Prefix:   LeadBytes,
	Category: CategoryUnknown,
	Kind:     PayloadUnknown,
}

func opcode(name string, cat Category, kind PayloadKind, h Handler, prefix ...byte) *Opcode {
	return &Opcode{Name: name, Prefix: prefix, Category: cat, Kind: kind, Handler: h}
}

var (
	code2DTable   = MustTable("code2d", nil, nil, code2DOpcodes())
	graphicsTable = MustTable("graphics", nil, nil, graphicsOpcodes())
	escposTable   = MustTable(DefaultTableName, defaultOpcode, unknownOpcode, escposOpcodes())
)

func init() {
	RegisterTable(DefaultTableName, escposTable)
	RegisterTable("epson", escposTable)
}

// DefaultTable returns the ESC/POS table
func DefaultTable() *Table { return escposTable }

// Code2DTable returns the secondary table behind GS ( k, keyed {cn, fn}
func Code2DTable() *Table { return code2DTable }

// GraphicsTable returns the secondary table behind GS ( L and GS 8 L, keyed
// {fn}
func GraphicsTable() *Table { return graphicsTable }

func escposOpcodes() []*Opcode {
	const (
		ctl  = CategoryControl
		txt  = CategoryText
		gfx  = CategoryGraphics
		sty  = CategoryContext
		cc   = CategoryContextControl
		sub  = CategorySubcommand
		none = PayloadEmpty
		one  = PayloadSingle
		two  = PayloadDouble
		cus  = PayloadCustom
	)
	ops := []*Opcode{
		// Control
		opcode("LINE_FEED", txt, none, literal("\n"), LF),
		opcode("HORIZONTAL_TAB", txt, none, literal("\t"), HT),
		opcode("CARRIAGE_RETURN", ctl, none, nil, CR),
		opcode("FORM_FEED", ctl, none, formFeed(), FF),
		opcode("CANCEL", ctl, none, emit(DeviceCancel), CAN),
		opcode("INITIALIZE", cc, none, initialize(), ESC, '@'),
		opcode("PRINT_PAGE", ctl, none, emit(DeviceEndPrint), ESC, FF),
		opcode("PAGE_MODE", cc, none, pageMode(true), ESC, 'L'),
		opcode("STANDARD_MODE", cc, none, pageMode(false), ESC, 'S'),

		// Real-time
		opcode("REALTIME_STATUS", ctl, one, statusRequest(), DLE, EOT),
		opcode("REALTIME_REQUEST", ctl, one, nil, DLE, ENQ),
		opcode("REALTIME_PULSE", ctl, two, realtimePulse(), DLE, DC4, 1),
		opcode("REALTIME_POWER_OFF", ctl, two, emit(DevicePowerOff), DLE, DC4, 2),
		opcode("REALTIME_STATUS_TRANSMIT", ctl, one, statusRequest(), DLE, DC4, 7),

		// Text style
		opcode("CHARACTER_SPACING", sty, one, applyByte(func(n byte, ctx *Context) { ctx.Text.CharSpacing = n }), ESC, ' '),
		opcode("PRINT_MODE", sty, one, selectPrintMode(), ESC, '!'),
		opcode("USER_CHARACTERS", sty, one, applyByte(func(n byte, ctx *Context) { ctx.Text.UserChars = enabled(n) }), ESC, '%'),
		opcode("DEFINE_USER_CHARACTERS", sty, cus, &userCharacters{}, ESC, '&'),
		opcode("CANCEL_USER_CHARACTER", sty, one, nil, ESC, '?'),
		opcode("UNDERLINE", sty, one, setUnderline(), ESC, '-'),
		opcode("DEFAULT_LINE_SPACING", sty, none, applyNone(func(ctx *Context) { ctx.Text.LineSpacing = 30 }), ESC, '2'),
		opcode("LINE_SPACING", sty, one, setLineSpacing(), ESC, '3'),
		opcode("BOLD", sty, one, applyByte(func(n byte, ctx *Context) { ctx.Text.Bold = enabled(n) }), ESC, 'E'),
		opcode("DOUBLE_STRIKE", sty, one, applyByte(func(n byte, ctx *Context) { ctx.Text.DoubleStrike = enabled(n) }), ESC, 'G'),
		opcode("FONT", sty, one, selectFont(), ESC, 'M'),
		opcode("CHARACTER_SET", sty, one, applyByte(func(n byte, ctx *Context) { ctx.Text.CharSet = n }), ESC, 'R'),
		opcode("ROTATE", sty, one, applyByte(func(n byte, ctx *Context) { ctx.Text.Rotate = enabled(n) }), ESC, 'V'),
		opcode("JUSTIFY", sty, one, justifyDevice(), ESC, 'a'),
		opcode("CODE_PAGE", sty, one, applyByte(func(n byte, ctx *Context) { ctx.Text.CodePage = n }), ESC, 't'),
		opcode("UPSIDE_DOWN", sty, one, applyByte(func(n byte, ctx *Context) { ctx.Text.UpsideDown = enabled(n) }), ESC, '{'),
		opcode("CHARACTER_SIZE", sty, one, selectCharacterSize(), GS, '!'),
		opcode("INVERT", sty, one, applyByte(func(n byte, ctx *Context) { ctx.Text.Invert = enabled(n) }), GS, 'B'),
		opcode("SMOOTHING", sty, one, applyByte(func(n byte, ctx *Context) { ctx.Text.Smoothing = enabled(n) }), GS, 'b'),
		opcode("PAPER_SENSOR_OUTPUT", ctl, one, nil, ESC, 'c', '3'),
		opcode("PAPER_SENSOR_STOP", ctl, one, nil, ESC, 'c', '4'),
		opcode("PANEL_BUTTONS", sty, one, applyByte(func(n byte, ctx *Context) { ctx.Text.PanelButtonsLock = enabled(n) }), ESC, 'c', '5'),
		opcode("PERIPHERAL_DEVICE", ctl, one, nil, ESC, '='),

		// Kanji
		opcode("KANJI_ON", sty, none, applyNone(func(ctx *Context) { ctx.Text.Kanji = true }), FS, '&'),
		opcode("KANJI_OFF", sty, none, applyNone(func(ctx *Context) { ctx.Text.Kanji = false }), FS, '.'),
		opcode("KANJI_PRINT_MODE", sty, one, applyByte(func(n byte, ctx *Context) {
			ctx.Text.KanjiUnderline = 0
			if n&0x80 != 0 {
				ctx.Text.KanjiUnderline = 1
			}
		}), FS, '!'),
		opcode("KANJI_UNDERLINE", sty, one, applyByte(func(n byte, ctx *Context) {
			if u := selector(n); u <= 2 {
				ctx.Text.KanjiUnderline = u
			}
		}), FS, '-'),
		opcode("KANJI_CODE_SYSTEM", sty, one, nil, FS, 'C'),
		opcode("KANJI_SPACING", sty, two, kanjiSpacing(), FS, 'S'),
		opcode("KANJI_QUADRUPLE", sty, one, nil, FS, 'W'),

		// Position
		opcode("LEFT_MARGIN", sty, two, applyWord(func(n int, ctx *Context) { ctx.Text.LeftMargin = n }), GS, 'L'),
		opcode("PRINT_AREA_WIDTH", sty, two, applyWord(func(n int, ctx *Context) { ctx.Text.PrintAreaWidth = n }), GS, 'W'),
		opcode("MOTION_UNITS", sty, two, setMotionUnits(), GS, 'P'),
		opcode("ABSOLUTE_POSITION", ctl, two, moveAbsolute(DeviceMoveX), ESC, '$'),
		opcode("RELATIVE_POSITION", ctl, two, moveRelative(DeviceMoveXRelative), ESC, '\\'),
		opcode("ABSOLUTE_VERTICAL_POSITION", ctl, two, moveAbsolute(DeviceMoveY), GS, '$'),
		opcode("RELATIVE_VERTICAL_POSITION", ctl, two, moveRelative(DeviceMoveYRelative), GS, '\\'),
		opcode("PAGE_DIRECTION", sty, one, applyByte(func(n byte, ctx *Context) { ctx.Text.PageDirection = selector(n) & 0x03 }), ESC, 'T'),
		opcode("PAGE_AREA", sty, PayloadOctet, setPageArea(), ESC, 'W'),

		// Feed and cut
		opcode("FEED_LINES", ctl, one, emitByte(DeviceFeedLines, 1), ESC, 'd'),
		opcode("REVERSE_FEED_LINES", ctl, one, reverseFeed(DeviceFeedLines), ESC, 'e'),
		opcode("FEED_DOTS", ctl, one, emitByte(DeviceFeedDots, 1), ESC, 'J'),
		opcode("REVERSE_FEED_DOTS", ctl, one, reverseFeed(DeviceFeedDots), ESC, 'K'),
		opcode("FULL_CUT", ctl, none, emit(DeviceFullCut), ESC, 'i'),
		opcode("PARTIAL_CUT", ctl, none, emit(DevicePartialCut), ESC, 'm'),
		opcode("CUT", ctl, cus, newCut(), GS, 'V'),
		opcode("PULSE", ctl, PayloadTriple, pulse(), ESC, 'p'),

		// Barcodes
		opcode("HRI_POSITION", sty, one, hriPosition(), GS, 'H'),
		opcode("HRI_FONT", sty, one, hriFont(), GS, 'f'),
		opcode("BARCODE_HEIGHT", sty, one, barcodeHeight(), GS, 'h'),
		opcode("BARCODE_WIDTH", sty, one, barcodeWidth(), GS, 'w'),
		opcode("BARCODE", gfx, cus, &barcode{}, GS, 'k'),

		// Bit images
		opcode("BIT_IMAGE", gfx, cus, bitImage{}, ESC, '*'),
		opcode("RASTER_IMAGE", gfx, cus, rasterImage{}, GS, 'v', '0'),
		opcode("DEFINE_DOWNLOADED_IMAGE", sty, cus, downloadImage{}, GS, '*'),
		opcode("PRINT_DOWNLOADED_IMAGE", gfx, one, printDownloaded(), GS, '/'),
		opcode("PRINT_NV_BIT_IMAGE", gfx, two, printNVBitImage(), FS, 'p'),
		opcode("DEFINE_NV_BIT_IMAGE", sty, cus, &nvBitImages{}, FS, 'q'),

		// Status
		opcode("AUTO_STATUS_BACK", ctl, one, nil, GS, 'a'),
		opcode("STATUS", ctl, one, statusRequest(), GS, 'r'),
		opcode("PRINTER_ID", ctl, one, statusRequest(), GS, 'I'),

		// Function blocks
		opcode("CODE_2D", sub, PayloadSubcommand, NewSubcommand(code2DTable, false, true), GS, '(', 'k'),
		opcode("GRAPHICS", sub, PayloadSubcommand, NewSubcommand(graphicsTable, false, false), GS, '(', 'L'),
		opcode("GRAPHICS_LARGE", sub, PayloadSubcommand, NewSubcommand(graphicsTable, true, false), GS, '8', 'L'),
		opcode("PAGE_DRAWING", gfx, cus, newDrawing(), GS, '(', 'Q'),
	}
	for _, fn := range []byte("ACDEHKMNP") {
		ops = append(ops, opcode("FUNCTION_"+string(fn), ctl, cus, newLengthPrefixed(), GS, '(', fn))
	}
	return ops
}
