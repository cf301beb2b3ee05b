// internal/receipt/commands.go
package receipt

// Fixed ESC/POS sequences the builder emits
var (
	cmdInitialize    = []byte{0x1B, 0x40}       // ESC @
	cmdStatusRequest = []byte{0x10, 0x04, 0x01} // DLE EOT 1

	cmdBoldOn       = []byte{0x1B, 0x45, 0x01} // ESC E 1
	cmdBoldOff      = []byte{0x1B, 0x45, 0x00} // ESC E 0
	cmdUnderlineOn  = []byte{0x1B, 0x2D, 0x01} // ESC - 1
	cmdUnderlineOff = []byte{0x1B, 0x2D, 0x00} // ESC - 0
	cmdResetMode    = []byte{0x1B, 0x21, 0x00} // ESC ! 0

	cmdAlignLeft   = []byte{0x1B, 0x61, 0x00} // ESC a 0
	cmdAlignCenter = []byte{0x1B, 0x61, 0x01} // ESC a 1
	cmdAlignRight  = []byte{0x1B, 0x61, 0x02} // ESC a 2

	cmdLineFeed  = []byte{0x0A}       // LF
	cmdFormFeed  = []byte{0x0C}       // FF
	cmdFeedLines = []byte{0x1B, 0x64} // ESC d + n

	cmdCutFull    = []byte{0x1D, 0x56, 0x00} // GS V 0
	cmdCutPartial = []byte{0x1D, 0x56, 0x01} // GS V 1

	cmdPulse = []byte{0x1B, 0x70} // ESC p m t1 t2
)

// Paper widths in dots at 180 dpi, for GS W
const (
	Width58mm = 320
	Width80mm = 512
)

// Code pages selectable with ESC t
const (
	CodePagePC437 byte = 0
	CodePagePC850 byte = 2
	CodePagePC852 byte = 18
	CodePagePC858 byte = 19
)

// Function A barcode systems for GS k
const (
	BarcodeUPCA    byte = 0
	BarcodeUPCE    byte = 1
	BarcodeEAN13   byte = 2
	BarcodeEAN8    byte = 3
	BarcodeCODE39  byte = 4
	BarcodeITF     byte = 5
	BarcodeCODABAR byte = 6
)

// Function B barcode systems for GS k
const (
	BarcodeCODE93  byte = 72
	BarcodeCODE128 byte = 73
)
