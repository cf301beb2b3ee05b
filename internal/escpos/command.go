// internal/escpos/command.go
package escpos

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Opcode is an immutable command descriptor. Tables share descriptors
// between every parse; commands reference them without copying the prefix
type Opcode struct {
	Name     string
	Prefix   []byte
	Category Category
	Kind     PayloadKind
	Handler  Handler
}

// Command is one tokenized unit of the input stream
type Command struct {
	Name     string
	Prefix   []byte
	Payload  []byte
	Category Category
	Kind     PayloadKind

	opcode  *Opcode
	handler Handler
}

func newCommand(op *Opcode) *Command {
	var h Handler = noop{}
	if op.Handler != nil {
		h = op.Handler.Clone()
	}
	return &Command{
		Name:     op.Name,
		Prefix:   op.Prefix,
		Category: op.Category,
		Kind:     op.Kind,
		opcode:   op,
		handler:  h,
	}
}

// newRawCommand builds a command whose bytes did not come from a prefix
// match: the whole run is payload
func newRawCommand(op *Opcode, raw []byte) *Command {
	cmd := newCommand(op)
	cmd.Prefix = nil
	cmd.Payload = append([]byte(nil), raw...)
	return cmd
}

// Opcode returns the descriptor this command was matched from
func (c *Command) Opcode() *Opcode { return c.opcode }

// Handler returns the command's own handler instance
func (c *Command) Handler() Handler { return c.handler }

// Len is the number of input bytes the command accounts for
func (c *Command) Len() int { return len(c.Prefix) + len(c.Payload) }

// Bytes returns prefix and payload as one slice
func (c *Command) Bytes() []byte {
	out := make([]byte, 0, c.Len())
	out = append(out, c.Prefix...)
	return append(out, c.Payload...)
}

// Push offers b to the command's payload
func (c *Command) Push(b byte) bool {
	if n, ok := c.Kind.FixedSize(); ok {
		if len(c.Payload) < n {
			c.Payload = append(c.Payload, b)
			return true
		}
		return false
	}
	switch c.Kind {
	case PayloadCustom, PayloadSubcommand:
		if a, ok := c.handler.(ByteAcceptor); ok {
			return a.Accept(&c.Payload, b)
		}
	}
	return false
}

// ApplyContext mutates ctx according to the command
func (c *Command) ApplyContext(ctx *Context) {
	if a, ok := c.handler.(ContextApplier); ok {
		a.ApplyContext(c, ctx)
	}
}

// Text returns the literal text carried by the command, if any
func (c *Command) Text(ctx *Context) (string, bool) {
	if t, ok := c.handler.(TextExtractor); ok {
		return t.Text(c, ctx)
	}
	return "", false
}

// Graphics returns the graphic the command prints, if any
func (c *Command) Graphics(ctx *Context) (Graphics, bool) {
	if g, ok := c.handler.(GraphicsExtractor); ok {
		return g.Graphics(c, ctx)
	}
	return nil, false
}

// DeviceCommands returns the printer side effects of the command
func (c *Command) DeviceCommands(ctx *Context) []DeviceCommand {
	if d, ok := c.handler.(DeviceCommander); ok {
		return d.DeviceCommands(c, ctx)
	}
	return nil
}

// Describe renders a trace line for the command
func (c *Command) Describe(ctx *Context) string {
	if d, ok := c.handler.(Describer); ok {
		return d.Describe(c, ctx)
	}
	return describeRaw(c)
}

func describeRaw(c *Command) string {
	var sb strings.Builder
	sb.WriteString(c.Name)
	if len(c.Prefix) > 0 {
		fmt.Fprintf(&sb, " [%s]", spacedHex(c.Prefix))
	}
	if len(c.Payload) > 0 {
		sb.WriteByte(' ')
		sb.WriteString(spacedHex(truncate(c.Payload, 32)))
		if len(c.Payload) > 32 {
			fmt.Fprintf(&sb, " ... (%d bytes)", len(c.Payload))
		}
	}
	return sb.String()
}

func truncate(b []byte, n int) []byte {
	if len(b) > n {
		return b[:n]
	}
	return b
}

func spacedHex(b []byte) string {
	s := hex.EncodeToString(b)
	var sb strings.Builder
	for i := 0; i < len(s); i += 2 {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(s[i : i+2])
	}
	return sb.String()
}
