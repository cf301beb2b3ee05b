// internal/escpos/table.go
package escpos

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownTable is returned by LookupTable for unregistered names
var ErrUnknownTable = errors.New("escpos: unknown opcode table")

// Table is an immutable opcode set. It is safe for concurrent use
type Table struct {
	name     string
	opcodes  []*Opcode
	byFirst  [256][]*Opcode
	fallback *Opcode
	unknown  *Opcode
	leads    [256]bool
}

// NewTable builds a table. def is used for bytes no opcode claims; unknown
// absorbs failed matches that started on one of its prefix bytes. Either may
// be nil for secondary tables that are only searched by exact key
func NewTable(name string, def, unknown *Opcode, opcodes []*Opcode) (*Table, error) {
	t := &Table{name: name, fallback: def, unknown: unknown}
	seen := make(map[string]string, len(opcodes))
	for _, op := range opcodes {
		if len(op.Prefix) == 0 {
			return nil, fmt.Errorf("escpos: table %s: opcode %s has an empty prefix", name, op.Name)
		}
		key := string(op.Prefix)
		if other, dup := seen[key]; dup {
			return nil, fmt.Errorf("escpos: table %s: opcodes %s and %s share prefix % x", name, other, op.Name, op.Prefix)
		}
		seen[key] = op.Name
		t.opcodes = append(t.opcodes, op)
		t.byFirst[op.Prefix[0]] = append(t.byFirst[op.Prefix[0]], op)
	}
	if unknown != nil {
		for _, b := range unknown.Prefix {
			t.leads[b] = true
		}
	}
	return t, nil
}

// MustTable is NewTable for statically declared tables
func MustTable(name string, def, unknown *Opcode, opcodes []*Opcode) *Table {
	t, err := NewTable(name, def, unknown, opcodes)
	if err != nil {
		panic(err)
	}
	return t
}

// Name returns the table name
func (t *Table) Name() string { return t.name }

// Opcodes returns the descriptors in declaration order
func (t *Table) Opcodes() []*Opcode {
	return append([]*Opcode(nil), t.opcodes...)
}

// Default returns the descriptor used for unmatched bytes
func (t *Table) Default() *Opcode { return t.fallback }

// Unknown returns the descriptor for failed lead-byte matches
func (t *Table) Unknown() *Opcode { return t.unknown }

// IsLead reports whether b opens an opcode family in this table
func (t *Table) IsLead(b byte) bool { return t.leads[b] }

// Lookup returns the opcode whose prefix equals key exactly
func (t *Table) Lookup(key []byte) *Opcode {
	if len(key) == 0 {
		return nil
	}
	for _, op := range t.byFirst[key[0]] {
		if bytes.Equal(op.Prefix, key) {
			return op
		}
	}
	return nil
}

var tables = map[string]*Table{}

// RegisterTable makes t available to LookupTable under name
func RegisterTable(name string, t *Table) {
	tables[name] = t
}

// LookupTable returns a registered table by name
func LookupTable(name string) (*Table, error) {
	t, ok := tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTable, name)
	}
	return t, nil
}

// TableNames lists registered table names in sorted order
func TableNames() []string {
	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
