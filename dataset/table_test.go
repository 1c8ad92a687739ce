package dataset

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/moldesc/pkg/errors"
)

func newTestTable(t *testing.T) *DescriptorTable {
	t.Helper()
	tab := NewDescriptorTable([]string{"nC", "MW", "aromatic", "BalabanJ"})
	require.NoError(t, tab.AppendRow("m0", []any{1, 16.04, false, errors.NewUndefinedDescriptorError("BalabanJ", "no bonds")}))
	require.NoError(t, tab.AppendRow("m1", []any{2, 30.07, false, 1.0}))
	require.NoError(t, tab.AppendRow("m2", []any{6, 78.11, true, 3.0}))
	return tab
}

func TestDescriptorTable_Basics(t *testing.T) {
	tab := newTestTable(t)
	assert.Equal(t, 3, tab.Rows())
	assert.Equal(t, 4, tab.Cols())
	assert.Equal(t, 2, tab.ColumnIndex("aromatic"))
	assert.Equal(t, -1, tab.ColumnIndex("nope"))
	assert.Equal(t, []any{16.04, 30.07, 78.11}, tab.Column(1))

	err := tab.AppendRow("bad", []any{1})
	var de *errors.DimensionError
	assert.True(t, errors.As(err, &de))
}

func TestDescriptorTable_DropColumnsKeepsOrder(t *testing.T) {
	tab := newTestTable(t)
	tab.DropColumnsByName("MW", "unknown")
	assert.Equal(t, []string{"nC", "aromatic", "BalabanJ"}, tab.Names())
	assert.Equal(t, []any{6, true, 3.0}, tab.Row(2))

	tab.DropColumns([]int{0, 2})
	assert.Equal(t, []string{"aromatic"}, tab.Names())
	assert.Equal(t, 3, tab.Rows())
}

func TestDescriptorTable_SelectRowsAndClone(t *testing.T) {
	tab := newTestTable(t)
	sub := tab.SelectRows([]int{2, 0})
	assert.Equal(t, []string{"m2", "m0"}, sub.RowIDs())
	assert.Equal(t, 6, sub.Cell(0, 0))

	c := tab.Clone()
	c.DropColumnsByName("nC")
	assert.Equal(t, 4, tab.Cols())
	assert.Equal(t, 3, c.Cols())
}

func TestDescriptorTable_CSVRoundTrip(t *testing.T) {
	tab := newTestTable(t)
	var buf bytes.Buffer
	require.NoError(t, tab.WriteCSV(&buf))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 4)
	assert.Equal(t, "mol_id,nC,MW,aromatic,BalabanJ", string(lines[0]))
	assert.Equal(t, "m0,1,16.04,false,", string(lines[1]))

	back, err := ReadCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, tab.Names(), back.Names())
	assert.Equal(t, tab.RowIDs(), back.RowIDs())
	assert.Equal(t, "78.11", back.Cell(2, 1))
	assert.Nil(t, back.Cell(0, 3))
}

func TestReadCSV_BadHeader(t *testing.T) {
	_, err := ReadCSV(bytes.NewBufferString("id,a\n1,2\n"))
	var fe *errors.FormatError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, 1, fe.Line)
}

func TestFormatCell(t *testing.T) {
	assert.Equal(t, "", formatCell(math.NaN()))
	assert.Equal(t, "0.5", formatCell(0.5))
	assert.Equal(t, "x", formatCell("x"))
	assert.Equal(t, "", formatCell(struct{}{}))
}
