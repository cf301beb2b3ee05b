// internal/escpos/bytes.go
package escpos

// Control bytes used by the ESC/POS command family
const (
	NUL byte = 0x00
	EOT byte = 0x04
	ENQ byte = 0x05
	HT  byte = 0x09
	LF  byte = 0x0A
	FF  byte = 0x0C
	CR  byte = 0x0D
	DLE byte = 0x10
	DC4 byte = 0x14
	CAN byte = 0x18
	ESC byte = 0x1B
	FS  byte = 0x1C
	GS  byte = 0x1D
)

// LeadBytes are the bytes that open a multi-byte opcode family
var LeadBytes = []byte{ESC, GS, FS, DLE, CAN}
