// internal/escpos/handler.go
package escpos

// Handler is the behavior attached to an opcode. The descriptor holds a
// prototype; every matched Command owns the result of Clone, so per-instance
// decode state is never shared between commands.
//
// A Handler implements any subset of ByteAcceptor, ContextApplier,
// TextExtractor, GraphicsExtractor, DeviceCommander and Describer. Missing
// capabilities behave as no-ops
type Handler interface {
	Clone() Handler
}

// ByteAcceptor decides whether b belongs to the payload. Returning false
// ends the command and b is offered to the parser again
type ByteAcceptor interface {
	Accept(payload *[]byte, b byte) bool
}

// ContextApplier applies the resolved payload to the print context
type ContextApplier interface {
	ApplyContext(cmd *Command, ctx *Context)
}

// TextExtractor yields literal text to emit
type TextExtractor interface {
	Text(cmd *Command, ctx *Context) (string, bool)
}

// GraphicsExtractor yields an image, barcode, 2D code, rectangle or line
type GraphicsExtractor interface {
	Graphics(cmd *Command, ctx *Context) (Graphics, bool)
}

// DeviceCommander yields printer side effects
type DeviceCommander interface {
	DeviceCommands(cmd *Command, ctx *Context) []DeviceCommand
}

// Describer renders a human readable trace line
type Describer interface {
	Describe(cmd *Command, ctx *Context) string
}

// funcs adapts plain functions to the capability set. Payload decode errors
// returned by the functions turn into empty results
type funcs struct {
	apply    func(cmd *Command, ctx *Context) error
	text     func(cmd *Command, ctx *Context) (string, error)
	graphics func(cmd *Command, ctx *Context) (Graphics, error)
	device   func(cmd *Command, ctx *Context) ([]DeviceCommand, error)
}

func (h funcs) Clone() Handler { return h }

func (h funcs) ApplyContext(cmd *Command, ctx *Context) {
	if h.apply != nil {
		_ = h.apply(cmd, ctx)
	}
}

func (h funcs) Text(cmd *Command, ctx *Context) (string, bool) {
	if h.text == nil {
		return "", false
	}
	s, err := h.text(cmd, ctx)
	if err != nil || s == "" {
		return "", false
	}
	return s, true
}

func (h funcs) Graphics(cmd *Command, ctx *Context) (Graphics, bool) {
	if h.graphics == nil {
		return nil, false
	}
	g, err := h.graphics(cmd, ctx)
	if err != nil || g == nil {
		return nil, false
	}
	return g, true
}

func (h funcs) DeviceCommands(cmd *Command, ctx *Context) []DeviceCommand {
	if h.device == nil {
		return nil
	}
	out, err := h.device(cmd, ctx)
	if err != nil {
		return nil
	}
	return out
}

// noop is the handler of commands whose only effect is being recognized
type noop struct{}

func (noop) Clone() Handler { return noop{} }
