// internal/service/table_service.go
package service

import (
	"fmt"

	"escpos-service/internal/escpos"
)

// OpcodeInfo describes one table entry
type OpcodeInfo struct {
	Name        string `json:"name"`
	Prefix      string `json:"prefix"`
	Category    string `json:"category"`
	PayloadKind string `json:"payload_kind"`
}

// TableInfo describes a registered command table
type TableInfo struct {
	Name    string       `json:"name"`
	Opcodes int          `json:"opcodes"`
	Entries []OpcodeInfo `json:"entries,omitempty"`
}

// ListTables returns every registered table without its entries
func ListTables() []TableInfo {
	names := escpos.TableNames()
	tables := make([]TableInfo, 0, len(names))
	for _, name := range names {
		t, err := escpos.LookupTable(name)
		if err != nil {
			continue
		}
		tables = append(tables, TableInfo{Name: name, Opcodes: len(t.Opcodes())})
	}
	return tables
}

// DescribeTable returns a table with all of its entries, including the
// nested function tables of its subcommands
func DescribeTable(name string) (*TableInfo, error) {
	t, err := escpos.LookupTable(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, name)
	}

	info := &TableInfo{Name: name}
	for _, op := range t.Opcodes() {
		info.Entries = append(info.Entries, opcodeInfo(op))
	}
	for _, nested := range []*escpos.Table{escpos.Code2DTable(), escpos.GraphicsTable()} {
		for _, op := range nested.Opcodes() {
			entry := opcodeInfo(op)
			entry.Prefix = nested.Name() + ": " + entry.Prefix
			info.Entries = append(info.Entries, entry)
		}
	}
	info.Opcodes = len(info.Entries)
	return info, nil
}

func opcodeInfo(op *escpos.Opcode) OpcodeInfo {
	return OpcodeInfo{
		Name:        op.Name,
		Prefix:      fmt.Sprintf("% x", op.Prefix),
		Category:    op.Category.String(),
		PayloadKind: op.Kind.String(),
	}
}
