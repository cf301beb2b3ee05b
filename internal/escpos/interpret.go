// internal/escpos/interpret.go
package escpos

import "strings"

// Event is the interpreted outcome of one command
type Event struct {
	Index       int             `json:"index"`
	Offset      int             `json:"offset"`
	Name        string          `json:"name"`
	Category    Category        `json:"category"`
	Text        string          `json:"text,omitempty"`
	Graphics    Graphics        `json:"graphics,omitempty"`
	Device      []DeviceCommand `json:"device,omitempty"`
	Description string          `json:"description"`
}

// Summary aggregates a stream's events
type Summary struct {
	Bytes              int    `json:"bytes"`
	Commands           int    `json:"commands"`
	Unknown            int    `json:"unknown"`
	UnknownBytes       int    `json:"unknown_bytes"`
	TextBytes          int    `json:"text_bytes"`
	Images             int    `json:"images"`
	Barcodes           int    `json:"barcodes"`
	Codes2D            int    `json:"codes_2d"`
	Shapes             int    `json:"shapes"`
	Cuts               int    `json:"cuts"`
	FeedLines          int    `json:"feed_lines"`
	PaperDots          int    `json:"paper_dots"`
	DPI                int    `json:"dpi"`
	PrintJobs          int    `json:"print_jobs"`
	// GraphicsSinceReset is the graphics counter at the end of the stream
	GraphicsSinceReset int    `json:"graphics_since_reset"`
	Text               string `json:"text"`
}

// Interpreter walks commands in order against one Context, the way a
// renderer would
type Interpreter struct {
	ctx      *Context
	printing bool
}

// NewInterpreter returns an interpreter over ctx, or over a fresh context
// when ctx is nil
func NewInterpreter(ctx *Context) *Interpreter {
	if ctx == nil {
		ctx = NewContext()
	}
	return &Interpreter{ctx: ctx}
}

// Context returns the print context in its current state
func (in *Interpreter) Context() *Context { return in.ctx }

// Run interprets cmds and returns one event per command
func (in *Interpreter) Run(cmds []*Command) ([]Event, Summary) {
	events := make([]Event, 0, len(cmds))
	var sum Summary
	var text strings.Builder
	offset := 0
	for i, cmd := range cmds {
		ev := in.step(i, offset, cmd)
		in.tally(&sum, cmd, &ev)
		text.WriteString(ev.Text)
		events = append(events, ev)
		offset += cmd.Len()
	}
	sum.Bytes = offset
	sum.Commands = len(cmds)
	sum.DPI = in.ctx.Graphics.DPI
	sum.GraphicsSinceReset = in.ctx.Graphics.Counter
	sum.Text = text.String()
	return events, sum
}

func (in *Interpreter) step(i, offset int, cmd *Command) Event {
	ctx := in.ctx
	cmd.ApplyContext(ctx)
	ev := Event{
		Index:       i,
		Offset:      offset,
		Name:        cmd.Name,
		Category:    cmd.Category,
		Description: cmd.Describe(ctx),
	}
	if s, ok := cmd.Text(ctx); ok {
		ev.Text = s
	}
	if g, ok := cmd.Graphics(ctx); ok {
		ev.Graphics = g
	}
	ev.Device = cmd.DeviceCommands(ctx)
	if ev.Graphics != nil {
		ctx.Graphics.Counter++
	}

	// The first printed text or graphic of a job opens it; initialize,
	// end-print and cuts close it
	if !in.printing && (ev.Text != "" || ev.Graphics != nil) {
		ev.Device = append([]DeviceCommand{{Kind: DeviceBeginPrint}}, ev.Device...)
		in.printing = true
	}
	for _, d := range ev.Device {
		switch d.Kind {
		case DeviceInitialize:
			ctx.Reset()
			in.printing = false
		case DeviceEndPrint, DeviceFullCut, DevicePartialCut:
			in.printing = false
		}
	}
	return ev
}

func (in *Interpreter) tally(sum *Summary, cmd *Command, ev *Event) {
	if cmd.Category == CategoryUnknown {
		sum.Unknown++
		sum.UnknownBytes += cmd.Len()
	}
	if cmd.Category == CategoryText && ev.Text != "" {
		sum.TextBytes += cmd.Len()
	}
	if n := strings.Count(ev.Text, "\n"); n > 0 {
		sum.FeedLines += n
		sum.PaperDots += n * in.ctx.Text.LineSpacing
	}
	switch g := ev.Graphics.(type) {
	case *Image:
		sum.Images++
		sum.PaperDots += g.Height * max(g.ScaleY, 1)
	case *Barcode:
		sum.Barcodes++
		sum.PaperDots += int(g.Style.Height)
	case *Code2D:
		sum.Codes2D++
	case *Rectangle, *Line:
		sum.Shapes++
	}
	for _, d := range ev.Device {
		switch d.Kind {
		case DeviceBeginPrint:
			sum.PrintJobs++
		case DeviceFullCut, DevicePartialCut:
			sum.Cuts++
		case DeviceFeedLines:
			sum.FeedLines += d.Value
			sum.PaperDots += d.Value * in.ctx.Text.LineSpacing
		case DeviceFeedDots:
			sum.PaperDots += d.Value
		}
	}
}

// Interpret tokenizes data against t and interprets the result from the
// power-on state
func Interpret(t *Table, data []byte) ([]*Command, []Event, Summary) {
	cmds := Parse(t, data)
	events, sum := NewInterpreter(nil).Run(cmds)
	return cmds, events, sum
}
