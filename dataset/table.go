package dataset

import (
	"github.com/YuminosukeSato/moldesc/pkg/errors"
)

// DescriptorTable holds raw descriptor values, one row per molecule and one column
// per descriptor name. Cells are float64, int, bool, string or error; an error cell
// marks a descriptor that is undefined for that molecule.
//
// Column order is the order of Names and stays stable under DropColumns.
type DescriptorTable struct {
	names  []string
	rowIDs []string
	cells  [][]any
}

// NewDescriptorTable returns an empty table with the given columns.
func NewDescriptorTable(names []string) *DescriptorTable {
	return &DescriptorTable{names: append([]string(nil), names...)}
}

// AppendRow adds a row. values must have one entry per column.
func (t *DescriptorTable) AppendRow(id string, values []any) error {
	if len(values) != len(t.names) {
		return errors.NewDimensionError("DescriptorTable.AppendRow", len(t.names), len(values), 1)
	}
	t.rowIDs = append(t.rowIDs, id)
	t.cells = append(t.cells, values)
	return nil
}

// Names returns a copy of the column names.
func (t *DescriptorTable) Names() []string { return append([]string(nil), t.names...) }

// RowIDs returns a copy of the row identifiers.
func (t *DescriptorTable) RowIDs() []string { return append([]string(nil), t.rowIDs...) }

// Rows returns the number of rows.
func (t *DescriptorTable) Rows() int { return len(t.cells) }

// Cols returns the number of columns.
func (t *DescriptorTable) Cols() int { return len(t.names) }

// Cell returns the raw value at row i, column j.
func (t *DescriptorTable) Cell(i, j int) any { return t.cells[i][j] }

// Row returns the raw values of row i. The slice is shared with the table.
func (t *DescriptorTable) Row(i int) []any { return t.cells[i] }

// Column returns the raw values of column j.
func (t *DescriptorTable) Column(j int) []any {
	col := make([]any, len(t.cells))
	for i, row := range t.cells {
		col[i] = row[j]
	}
	return col
}

// ColumnIndex returns the index of name, or -1.
func (t *DescriptorTable) ColumnIndex(name string) int {
	for j, n := range t.names {
		if n == name {
			return j
		}
	}
	return -1
}

// DropColumns removes the columns at the given indices in place. Remaining columns
// keep their relative order.
func (t *DescriptorTable) DropColumns(idx []int) {
	if len(idx) == 0 {
		return
	}
	drop := make(map[int]bool, len(idx))
	for _, j := range idx {
		drop[j] = true
	}
	keep := make([]int, 0, len(t.names))
	for j := range t.names {
		if !drop[j] {
			keep = append(keep, j)
		}
	}

	names := make([]string, len(keep))
	for k, j := range keep {
		names[k] = t.names[j]
	}
	t.names = names

	for i, row := range t.cells {
		nr := make([]any, len(keep))
		for k, j := range keep {
			nr[k] = row[j]
		}
		t.cells[i] = nr
	}
}

// DropColumnsByName removes the named columns; unknown names are ignored.
func (t *DescriptorTable) DropColumnsByName(names ...string) {
	var idx []int
	for _, n := range names {
		if j := t.ColumnIndex(n); j >= 0 {
			idx = append(idx, j)
		}
	}
	t.DropColumns(idx)
}

// SelectRows returns a new table holding the rows at idx, in idx order. Cells are
// shared with t.
func (t *DescriptorTable) SelectRows(idx []int) *DescriptorTable {
	out := &DescriptorTable{
		names:  t.Names(),
		rowIDs: make([]string, len(idx)),
		cells:  make([][]any, len(idx)),
	}
	for k, i := range idx {
		out.rowIDs[k] = t.rowIDs[i]
		out.cells[k] = t.cells[i]
	}
	return out
}

// Clone returns a copy whose column layout can be modified independently.
func (t *DescriptorTable) Clone() *DescriptorTable {
	out := &DescriptorTable{
		names:  t.Names(),
		rowIDs: t.RowIDs(),
		cells:  make([][]any, len(t.cells)),
	}
	for i, row := range t.cells {
		out.cells[i] = append([]any(nil), row...)
	}
	return out
}
