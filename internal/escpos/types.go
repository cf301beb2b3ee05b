// internal/escpos/types.go
package escpos

import "fmt"

// Category is the coarse classification of a command. Renderers use it to
// decide how a completed command is interpreted; matching ignores it
type Category int

const (
	CategoryControl Category = iota
	CategoryText
	CategoryGraphics
	CategoryContext
	CategoryContextControl
	CategorySubcommand
	CategoryUnknown
)

var categoryNames = [...]string{
	CategoryControl:        "CONTROL",
	CategoryText:           "TEXT",
	CategoryGraphics:       "GRAPHICS",
	CategoryContext:        "CONTEXT",
	CategoryContextControl: "CONTEXT_CONTROL",
	CategorySubcommand:     "SUBCOMMAND",
	CategoryUnknown:        "UNKNOWN",
}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryNames[c]
}

// MarshalText implements encoding.TextMarshaler
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// PayloadKind describes how a command accepts the bytes that follow its
// prefix
type PayloadKind int

const (
	// PayloadEmpty rejects every byte
	PayloadEmpty PayloadKind = iota
	PayloadSingle
	PayloadDouble
	PayloadTriple
	PayloadQuad
	PayloadOctet
	// PayloadText grows only through the parser coalescing unmatched bytes
	PayloadText
	// PayloadCustom lets the handler decide byte by byte
	PayloadCustom
	// PayloadSubcommand is PayloadCustom delegated to a nested table
	PayloadSubcommand
	// PayloadUnknown carries bytes no opcode claimed
	PayloadUnknown
)

var payloadKindNames = [...]string{
	PayloadEmpty:      "EMPTY",
	PayloadSingle:     "SINGLE",
	PayloadDouble:     "DOUBLE",
	PayloadTriple:     "TRIPLE",
	PayloadQuad:       "QUAD",
	PayloadOctet:      "OCTET",
	PayloadText:       "TEXT",
	PayloadCustom:     "CUSTOM",
	PayloadSubcommand: "SUBCOMMAND",
	PayloadUnknown:    "UNKNOWN",
}

func (k PayloadKind) String() string {
	if k < 0 || int(k) >= len(payloadKindNames) {
		return fmt.Sprintf("PayloadKind(%d)", int(k))
	}
	return payloadKindNames[k]
}

// MarshalText implements encoding.TextMarshaler
func (k PayloadKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// FixedSize reports the arity of fixed-size payload kinds
func (k PayloadKind) FixedSize() (int, bool) {
	switch k {
	case PayloadSingle:
		return 1, true
	case PayloadDouble:
		return 2, true
	case PayloadTriple:
		return 3, true
	case PayloadQuad:
		return 4, true
	case PayloadOctet:
		return 8, true
	}
	return 0, false
}
