package preprocessing

import (
	"fmt"
	"math"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/moldesc/dataset"
	"github.com/YuminosukeSato/moldesc/pkg/errors"
	"github.com/YuminosukeSato/moldesc/pkg/log"
)

// Features is a numeric design matrix with its column and row labels.
type Features struct {
	Names  []string
	RowIDs []string
	X      *mat.Dense
}

// Dims returns the number of rows and columns.
func (f *Features) Dims() (int, int) {
	if f.X == nil {
		return 0, 0
	}
	return f.X.Dims()
}

// SelectRows returns the rows at idx, in idx order.
func (f *Features) SelectRows(idx []int) *Features {
	_, c := f.Dims()
	out := &Features{
		Names:  append([]string(nil), f.Names...),
		RowIDs: make([]string, len(idx)),
	}
	if len(idx) == 0 {
		return out
	}
	out.X = mat.NewDense(len(idx), c, nil)
	for k, i := range idx {
		out.RowIDs[k] = f.RowIDs[i]
		out.X.SetRow(k, f.X.RawRowView(i))
	}
	return out
}

// CleanReport lists the columns removed at each cleaning step.
type CleanReport struct {
	Identical []string `json:"identical"`
	Missing   []string `json:"missing"`
	Constant  []string `json:"constant"`
	Kept      int      `json:"kept"`
}

// Dropped returns the total number of removed columns.
func (r *CleanReport) Dropped() int {
	return len(r.Identical) + len(r.Missing) + len(r.Constant)
}

// Clean turns a descriptor table into a numeric matrix. Columns are removed when
// their raw cells are identical across rows, when any cell fails numeric coercion,
// and when the coerced values are constant, in that order. The table is not modified.
func Clean(table *dataset.DescriptorTable) (*Features, *CleanReport, error) {
	logger := log.GetLoggerWithName("preprocessing")
	if table == nil || table.Rows() == 0 {
		return nil, nil, errors.NewModelError("Clean", "empty data", errors.ErrEmptyData)
	}

	rows := table.Rows()
	names := table.Names()
	report := &CleanReport{}

	var kept []int
	var cols [][]float64
	var nBool, nString int
	for j, name := range names {
		raw := table.Column(j)
		if rawIdentical(raw) {
			report.Identical = append(report.Identical, name)
			continue
		}
		values := make([]float64, rows)
		missing := false
		for i, cell := range raw {
			switch cell.(type) {
			case bool:
				nBool++
			case string:
				nString++
			}
			values[i] = ToFloat(cell)
			if math.IsNaN(values[i]) {
				missing = true
			}
		}
		if missing {
			report.Missing = append(report.Missing, name)
			continue
		}
		if constant(values) {
			report.Constant = append(report.Constant, name)
			continue
		}
		kept = append(kept, j)
		cols = append(cols, values)
	}

	if nBool > 0 {
		errors.Warn(errors.NewDataConversionWarning("bool", "float64",
			fmt.Sprintf("%d descriptor cells coerced to 0/1", nBool)))
	}
	if nString > 0 {
		errors.Warn(errors.NewDataConversionWarning("string", "float64",
			fmt.Sprintf("%d descriptor cells parsed as numbers; unparsable ones count as missing", nString)))
	}

	report.Kept = len(kept)
	if len(kept) == 0 {
		return nil, report, errors.NewModelError("Clean", "no descriptor columns survived cleaning", errors.ErrEmptyData)
	}

	X := mat.NewDense(rows, len(kept), nil)
	keptNames := make([]string, len(kept))
	for k, j := range kept {
		keptNames[k] = names[j]
		X.SetCol(k, cols[k])
	}

	logger.Info("descriptor table cleaned",
		log.OperationKey, log.OperationClean,
		log.SamplesKey, rows,
		log.FeaturesKey, len(kept),
		"dropped_identical", len(report.Identical),
		"dropped_missing", len(report.Missing),
		"dropped_constant", len(report.Constant),
	)
	return &Features{Names: keptNames, RowIDs: table.RowIDs(), X: X}, report, nil
}

// Project extracts the named columns from table in the given order, coercing cells
// the same way Clean does. A missing column or a cell that does not coerce is an
// error naming the row.
func Project(table *dataset.DescriptorTable, names []string) (*Features, error) {
	if table == nil || table.Rows() == 0 {
		return nil, errors.NewModelError("Project", "empty data", errors.ErrEmptyData)
	}
	idx := make([]int, len(names))
	for k, name := range names {
		idx[k] = table.ColumnIndex(name)
		if idx[k] < 0 {
			return nil, errors.NewValidationError("feature", "not present in descriptor table", name)
		}
	}
	ids := table.RowIDs()
	X := mat.NewDense(table.Rows(), len(names), nil)
	for i := 0; i < table.Rows(); i++ {
		for k, j := range idx {
			v := ToFloat(table.Cell(i, j))
			if math.IsNaN(v) {
				return nil, errors.NewValueError("Project",
					fmt.Sprintf("descriptor %s is undefined for %s", names[k], ids[i]))
			}
			X.Set(i, k, v)
		}
	}
	return &Features{Names: append([]string(nil), names...), RowIDs: ids, X: X}, nil
}

// ToFloat coerces a descriptor cell to float64. Errors, nil, strings that do not
// parse as numbers, and infinities become NaN.
func ToFloat(cell any) float64 {
	var v float64
	switch x := cell.(type) {
	case float64:
		v = x
	case float32:
		v = float64(x)
	case int:
		v = float64(x)
	case int64:
		v = float64(x)
	case bool:
		if x {
			v = 1
		}
	case string:
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return math.NaN()
		}
		v = f
	default:
		return math.NaN()
	}
	if math.IsInf(v, 0) {
		return math.NaN()
	}
	return v
}

func rawIdentical(cells []any) bool {
	if len(cells) == 0 {
		return true
	}
	first := rawKey(cells[0])
	for _, c := range cells[1:] {
		if rawKey(c) != first {
			return false
		}
	}
	return true
}

// rawKey distinguishes cells by type and value, so 1 and 1.0 differ.
func rawKey(cell any) string {
	switch x := cell.(type) {
	case nil:
		return "nil"
	case error:
		return "err:" + x.Error()
	case float64:
		if math.IsNaN(x) {
			return "float64:NaN"
		}
	}
	return fmt.Sprintf("%T:%v", cell, cell)
}

func constant(values []float64) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}
