package dataset

import (
	"math/rand/v2"

	"github.com/YuminosukeSato/moldesc/pkg/errors"
)

// Sample returns a subset of n records drawn without replacement. The same seed
// always yields the same subset in the same order. n >= Len returns every record in
// shuffled order.
func (d *Dataset) Sample(n int, seed uint64) *Dataset {
	if n < 0 {
		n = 0
	}
	rng := rand.New(rand.NewPCG(seed, seed))
	perm := rng.Perm(len(d.Records))
	if n > len(perm) {
		n = len(perm)
	}
	out := &Dataset{Source: d.Source, Records: make([]Record, n)}
	for i := 0; i < n; i++ {
		out.Records[i] = d.Records[perm[i]]
	}
	return out
}

// Subset returns the records at idx, in idx order.
func (d *Dataset) Subset(idx []int) *Dataset {
	out := &Dataset{Source: d.Source, Records: make([]Record, len(idx))}
	for i, j := range idx {
		out.Records[i] = d.Records[j]
	}
	return out
}

// Target returns the named target for every record.
func (d *Dataset) Target(name string) ([]float64, error) {
	y := make([]float64, len(d.Records))
	for i, rec := range d.Records {
		v, ok := rec.Targets[name]
		if !ok {
			return nil, errors.NewValueError("Dataset.Target", "unknown target "+name)
		}
		y[i] = v
	}
	return y, nil
}

// IDs returns the record identifiers in order.
func (d *Dataset) IDs() []string {
	ids := make([]string, len(d.Records))
	for i, rec := range d.Records {
		ids[i] = rec.ID
	}
	return ids
}

// Structures returns the structure strings in order.
func (d *Dataset) Structures() []string {
	out := make([]string, len(d.Records))
	for i, rec := range d.Records {
		out[i] = rec.Structure
	}
	return out
}
