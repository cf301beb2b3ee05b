// internal/escpos/parser.go
package escpos

// Parser tokenizes a complete byte buffer into commands against one table.
// A Parser is not safe for concurrent use; the Table it reads is
type Parser struct {
	table *Table

	matchDepth    int
	candidates    []*Opcode
	search        []byte
	commands      []*Command
	lastIsDefault bool
}

// NewParser returns a parser over t
func NewParser(t *Table) *Parser {
	return &Parser{table: t}
}

// Parse tokenizes data. Every input byte ends up in exactly one command's
// prefix or payload; malformed input degrades to default and unknown
// commands rather than failing
func Parse(t *Table, data []byte) []*Command {
	return NewParser(t).Parse(data)
}

// Parse tokenizes data, discarding any state from a previous call
func (p *Parser) Parse(data []byte) []*Command {
	p.reset()
	for _, b := range data {
		p.feed(b)
	}
	if len(p.search) > 0 {
		p.resolveMiss()
	}
	out := p.commands
	p.commands = nil
	return out
}

func (p *Parser) reset() {
	p.matchDepth = 0
	p.candidates = p.candidates[:0]
	p.search = p.search[:0]
	p.commands = nil
	p.lastIsDefault = false
}

func (p *Parser) last() *Command {
	if len(p.commands) == 0 {
		return nil
	}
	return p.commands[len(p.commands)-1]
}

func (p *Parser) feed(b byte) {
	if p.matchDepth == 0 && !p.lastIsDefault {
		if cmd := p.last(); cmd != nil && cmd.Push(b) {
			return
		}
	}

	p.search = append(p.search, b)
	p.narrow(b)

	switch len(p.candidates) {
	case 0:
		p.resolveMiss()
	case 1:
		op := p.candidates[0]
		if len(op.Prefix)-1 == p.matchDepth {
			p.commands = append(p.commands, newCommand(op))
			p.lastIsDefault = false
			p.clearSearch()
			return
		}
		p.matchDepth++
	default:
		p.matchDepth++
	}
}

// narrow keeps the candidates whose prefix byte at the current depth is b
func (p *Parser) narrow(b byte) {
	if p.matchDepth == 0 {
		p.candidates = append(p.candidates[:0], p.table.byFirst[b]...)
		return
	}
	kept := p.candidates[:0]
	for _, op := range p.candidates {
		if len(op.Prefix) > p.matchDepth && op.Prefix[p.matchDepth] == b {
			kept = append(kept, op)
		}
	}
	p.candidates = kept
}

// resolveMiss turns the bytes gathered while searching into an unknown
// command, or into text
func (p *Parser) resolveMiss() {
	switch {
	case p.table.unknown != nil && p.table.IsLead(p.search[0]):
		p.commands = append(p.commands, newRawCommand(p.table.unknown, p.search))
		p.lastIsDefault = false
	case p.lastIsDefault:
		cmd := p.last()
		cmd.Payload = append(cmd.Payload, p.search...)
	default:
		def := p.table.fallback
		if def == nil {
			def = defaultOpcode
		}
		p.commands = append(p.commands, newRawCommand(def, p.search))
		p.lastIsDefault = true
	}
	p.clearSearch()
}

func (p *Parser) clearSearch() {
	p.search = p.search[:0]
	p.candidates = p.candidates[:0]
	p.matchDepth = 0
}
