// internal/escpos/payload.go
package escpos

import (
	"errors"
	"fmt"
)

// ErrShortPayload is returned when a handler reads past the end of a
// command's payload
var ErrShortPayload = errors.New("escpos: payload too short")

// payload is a bounds-checked view of command bytes
type payload []byte

func (p payload) u8(i int) (byte, error) {
	if i < 0 || i >= len(p) {
		return 0, fmt.Errorf("%w: offset %d of %d", ErrShortPayload, i, len(p))
	}
	return p[i], nil
}

func (p payload) u16(i int) (int, error) {
	if i < 0 || i+1 >= len(p) {
		return 0, fmt.Errorf("%w: offset %d of %d", ErrShortPayload, i+1, len(p))
	}
	return int(p[i]) | int(p[i+1])<<8, nil
}

func (p payload) i16(i int) (int, error) {
	v, err := p.u16(i)
	if err != nil {
		return 0, err
	}
	return int(int16(uint16(v))), nil
}

func (p payload) from(i int) ([]byte, error) {
	if i < 0 || i > len(p) {
		return nil, fmt.Errorf("%w: offset %d of %d", ErrShortPayload, i, len(p))
	}
	return p[i:], nil
}

func (p payload) span(i, n int) ([]byte, error) {
	if i < 0 || n < 0 || i+n > len(p) {
		return nil, fmt.Errorf("%w: span %d+%d of %d", ErrShortPayload, i, n, len(p))
	}
	return p[i : i+n], nil
}
