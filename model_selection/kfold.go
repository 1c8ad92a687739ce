package model_selection

import (
	"math/rand/v2"

	"github.com/YuminosukeSato/moldesc/pkg/errors"
)

// Fold is one train/test partition of sample indices.
type Fold struct {
	Train []int
	Test  []int
}

// KFold partitions samples into NSplits contiguous test folds, optionally after a
// seeded shuffle. The first n%NSplits folds get one extra sample.
type KFold struct {
	NSplits    int
	Shuffle    bool
	RandomSeed uint64
}

// NewKFold creates a splitter. nSplits below 2 falls back to 5.
func NewKFold(nSplits int, shuffle bool, seed uint64) *KFold {
	if nSplits < 2 {
		nSplits = 5
	}
	return &KFold{NSplits: nSplits, Shuffle: shuffle, RandomSeed: seed}
}

// Split returns the folds for n samples.
func (kf *KFold) Split(n int) ([]Fold, error) {
	if n < kf.NSplits {
		return nil, errors.NewValidationError("n_splits", "cannot exceed the number of samples", kf.NSplits)
	}

	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	if kf.Shuffle {
		r := rand.New(rand.NewPCG(kf.RandomSeed, kf.RandomSeed))
		r.Shuffle(n, func(i, j int) { indices[i], indices[j] = indices[j], indices[i] })
	}

	folds := make([]Fold, kf.NSplits)
	size, remainder := n/kf.NSplits, n%kf.NSplits
	start := 0
	for f := range folds {
		testSize := size
		if f < remainder {
			testSize++
		}
		end := start + testSize
		folds[f].Test = append([]int(nil), indices[start:end]...)
		folds[f].Train = make([]int, 0, n-testSize)
		folds[f].Train = append(folds[f].Train, indices[:start]...)
		folds[f].Train = append(folds[f].Train, indices[end:]...)
		start = end
	}
	return folds, nil
}
