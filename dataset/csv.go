package dataset

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"

	"github.com/YuminosukeSato/moldesc/pkg/errors"
)

// IDColumn is the header of the identifier column in descriptor CSV files.
const IDColumn = "mol_id"

// WriteCSV writes the table with an identifier column first. Undefined (error) cells
// and nil cells are written as empty fields.
func (t *DescriptorTable) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{IDColumn}, t.names...)); err != nil {
		return errors.Wrap(err, "write csv header")
	}
	record := make([]string, len(t.names)+1)
	for i, row := range t.cells {
		record[0] = t.rowIDs[i]
		for j, cell := range row {
			record[j+1] = formatCell(cell)
		}
		if err := cw.Write(record); err != nil {
			return errors.Wrapf(err, "write csv row %d", i)
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flush csv")
}

// ReadCSV reads a table written by WriteCSV. Non-empty cells load as strings and
// empty cells as nil; numeric resolution is left to the cleaner.
func ReadCSV(r io.Reader) (*DescriptorTable, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, errors.NewFormatError("csv", 1, "missing header: "+err.Error())
	}
	if len(header) == 0 || header[0] != IDColumn {
		return nil, errors.NewFormatError("csv", 1, "first column must be "+IDColumn)
	}
	t := NewDescriptorTable(header[1:])
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, errors.NewFormatError("csv", line, err.Error())
		}
		values := make([]any, len(rec)-1)
		for j, s := range rec[1:] {
			if s != "" {
				values[j] = s
			}
		}
		if err := t.AppendRow(rec[0], values); err != nil {
			return nil, errors.NewFormatError("csv", line, err.Error())
		}
	}
	return t, nil
}

func formatCell(cell any) string {
	switch v := cell.(type) {
	case nil, error:
		return ""
	case float64:
		if math.IsNaN(v) {
			return ""
		}
		return strconv.FormatFloat(v, 'g', -1, 64)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	case string:
		return v
	default:
		return ""
	}
}
