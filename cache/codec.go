// Package cache persists computed descriptor rows so repeated runs over the same
// structures skip recomputation.
package cache

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/YuminosukeSato/moldesc/pkg/errors"
)

// cell is the stored form of one descriptor value. Exactly one field is set.
type cell struct {
	F *float64 `json:"f,omitempty"`
	I *int     `json:"i,omitempty"`
	B *bool    `json:"b,omitempty"`
	// N holds non-finite floats, which JSON cannot encode.
	N *string `json:"n,omitempty"`
	S *string `json:"s,omitempty"`
	// U is the reason of an undefined descriptor; D names it.
	U *string `json:"u,omitempty"`
	D string  `json:"d,omitempty"`
}

func encodeRow(values []any) ([]byte, error) {
	cells := make([]cell, len(values))
	for i, v := range values {
		switch x := v.(type) {
		case float64:
			if math.IsNaN(x) || math.IsInf(x, 0) {
				s := strconv.FormatFloat(x, 'g', -1, 64)
				cells[i].N = &s
				continue
			}
			cells[i].F = &x
		case int:
			cells[i].I = &x
		case bool:
			cells[i].B = &x
		case string:
			cells[i].S = &x
		case *errors.UndefinedDescriptorError:
			reason := x.Reason
			cells[i].U = &reason
			cells[i].D = x.Descriptor
		case error:
			reason := x.Error()
			cells[i].U = &reason
		case nil:
		default:
			return nil, errors.NewValueError("cache.encodeRow", "unsupported cell type")
		}
	}
	return json.Marshal(cells)
}

func decodeRow(data []byte) ([]any, error) {
	var cells []cell
	if err := json.Unmarshal(data, &cells); err != nil {
		return nil, errors.Wrap(err, "decode cached row")
	}
	values := make([]any, len(cells))
	for i, c := range cells {
		switch {
		case c.F != nil:
			values[i] = *c.F
		case c.I != nil:
			values[i] = *c.I
		case c.B != nil:
			values[i] = *c.B
		case c.N != nil:
			f, err := strconv.ParseFloat(*c.N, 64)
			if err != nil {
				return nil, errors.Wrap(err, "decode cached row")
			}
			values[i] = f
		case c.S != nil:
			values[i] = *c.S
		case c.U != nil:
			values[i] = errors.NewUndefinedDescriptorError(c.D, *c.U)
		}
	}
	return values, nil
}
