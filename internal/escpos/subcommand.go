// internal/escpos/subcommand.go
package escpos

import (
	"encoding/binary"
	"fmt"
)

// Subcommand delegates a length-prefixed function block to a secondary
// table. The block header is a little-endian length (2 bytes, or 4 for the
// large form), a modifier byte m and a function byte fn; the length counts m
// and fn, so length-2 data bytes follow the header.
//
// The nested command's prefix is the raw header and its payload is the data,
// so no input byte is lost even when fn resolves to nothing
type Subcommand struct {
	table *Table
	large bool
	useM  bool

	header   []byte
	resolved bool
	capacity int
	received int
	nested   *Command
}

// NewSubcommand returns a delegator prototype over table. With useM the
// nested key is {m, fn}; otherwise it is {fn}
func NewSubcommand(table *Table, large, useM bool) *Subcommand {
	return &Subcommand{table: table, large: large, useM: useM}
}

// Clone implements Handler
func (s *Subcommand) Clone() Handler {
	return &Subcommand{table: s.table, large: s.large, useM: s.useM}
}

func (s *Subcommand) headerLen() int {
	if s.large {
		return 6
	}
	return 4
}

// Accept implements ByteAcceptor
func (s *Subcommand) Accept(p *[]byte, b byte) bool {
	if s.resolved && s.received >= s.capacity {
		return false
	}
	*p = append(*p, b)
	if !s.resolved {
		s.header = append(s.header, b)
		if len(s.header) == s.headerLen() {
			s.resolve()
		}
		return true
	}
	s.received++
	if s.nested != nil {
		s.nested.Payload = append(s.nested.Payload, b)
	}
	return true
}

func (s *Subcommand) fields() (length int, m, fn byte) {
	if s.large {
		return int(binary.LittleEndian.Uint32(s.header[0:4])), s.header[4], s.header[5]
	}
	return int(binary.LittleEndian.Uint16(s.header[0:2])), s.header[2], s.header[3]
}

func (s *Subcommand) resolve() {
	s.resolved = true
	length, m, fn := s.fields()
	s.capacity = length - 2
	if s.capacity < 0 {
		s.capacity = 0
	}
	key := []byte{fn}
	if s.useM {
		key = []byte{m, fn}
	}
	if op := s.table.Lookup(key); op != nil {
		s.nested = newCommand(op)
		s.nested.Prefix = append([]byte(nil), s.header...)
	}
}

// Nested returns the resolved nested command, or nil
func (s *Subcommand) Nested() *Command { return s.nested }

// ApplyContext implements ContextApplier
func (s *Subcommand) ApplyContext(_ *Command, ctx *Context) {
	if s.nested != nil {
		s.nested.ApplyContext(ctx)
	}
}

// Text implements TextExtractor
func (s *Subcommand) Text(_ *Command, ctx *Context) (string, bool) {
	if s.nested == nil {
		return "", false
	}
	return s.nested.Text(ctx)
}

// Graphics implements GraphicsExtractor
func (s *Subcommand) Graphics(_ *Command, ctx *Context) (Graphics, bool) {
	if s.nested == nil {
		return nil, false
	}
	return s.nested.Graphics(ctx)
}

// DeviceCommands implements DeviceCommander
func (s *Subcommand) DeviceCommands(_ *Command, ctx *Context) []DeviceCommand {
	if s.nested == nil {
		return nil
	}
	return s.nested.DeviceCommands(ctx)
}

// Describe implements Describer
func (s *Subcommand) Describe(cmd *Command, ctx *Context) string {
	if s.nested != nil {
		return cmd.Name + " > " + s.nested.Describe(ctx)
	}
	if !s.resolved {
		return describeRaw(cmd) + " (incomplete header)"
	}
	_, m, fn := s.fields()
	return fmt.Sprintf("%s unsupported function m=%d fn=%d (%d bytes)", cmd.Name, m, fn, len(cmd.Payload))
}
