// internal/escpos/table_test.go
package escpos

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTableRejectsDuplicatePrefix(t *testing.T) {
	_, err := NewTable("dup", nil, nil, []*Opcode{
		{Name: "A", Prefix: []byte{ESC, 'a'}},
		{Name: "B", Prefix: []byte{ESC, 'a'}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "share prefix")
}

func TestNewTableRejectsEmptyPrefix(t *testing.T) {
	_, err := NewTable("empty", nil, nil, []*Opcode{{Name: "A"}})
	require.Error(t, err)
}

func TestLookupTable(t *testing.T) {
	tbl, err := LookupTable("epson")
	require.NoError(t, err)
	assert.Same(t, DefaultTable(), tbl)

	_, err = LookupTable("star")
	assert.True(t, errors.Is(err, ErrUnknownTable))

	assert.Subset(t, TableNames(), []string{"epson", "escpos"})
}

func TestTableLookupExact(t *testing.T) {
	tbl := DefaultTable()
	require.NotNil(t, tbl.Lookup([]byte{ESC, '@'}))
	assert.Nil(t, tbl.Lookup([]byte{ESC}))
	assert.Nil(t, tbl.Lookup(nil))

	op := Code2DTable().Lookup([]byte{49, 80})
	require.NotNil(t, op)
	assert.Equal(t, "QR_STORE", op.Name)
}

func TestLeadBytes(t *testing.T) {
	tbl := DefaultTable()
	for _, b := range LeadBytes {
		assert.True(t, tbl.IsLead(b))
	}
	assert.False(t, tbl.IsLead('A'))
	assert.False(t, tbl.IsLead(LF))
}

func TestOpcodesReturnsCopy(t *testing.T) {
	ops := DefaultTable().Opcodes()
	require.NotEmpty(t, ops)
	ops[0] = nil
	assert.NotNil(t, DefaultTable().Opcodes()[0])
}
