// Package descriptor computes a fixed vocabulary of numeric molecular descriptors
// from parsed structures: constitutional counts, topological indices, ring
// statistics, electronic proxies, autocorrelations, graph spectra and conjugation.
//
// A descriptor that has no value for a molecule (a ratio with a zero denominator,
// a ring statistic for an acyclic molecule) is reported as an
// *errors.UndefinedDescriptorError cell rather than as a failure.
package descriptor

import (
	"context"
	"fmt"
	"time"

	"github.com/YuminosukeSato/moldesc/chem/smiles"
	"github.com/YuminosukeSato/moldesc/core/parallel"
	"github.com/YuminosukeSato/moldesc/dataset"
	"github.com/YuminosukeSato/moldesc/pkg/errors"
	"github.com/YuminosukeSato/moldesc/pkg/log"
)

// Cache stores computed descriptor rows by key. Implementations must be safe for
// concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]any, bool, error)
	Put(ctx context.Context, key string, values []any) error
}

// Engine computes descriptor rows.
type Engine struct {
	names   []string
	workers int
	cache   Cache
	logger  log.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithWorkers sets the number of goroutines used by Table. n <= 0 means one per CPU.
func WithWorkers(n int) Option {
	return func(e *Engine) { e.workers = n }
}

// WithCache makes Table look rows up in c before computing them.
func WithCache(c Cache) Option {
	return func(e *Engine) { e.cache = c }
}

// WithLogger sets the logger.
func WithLogger(l log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// NewEngine creates an engine over the full vocabulary.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		names:  Names(),
		logger: log.GetLoggerWithName("descriptor"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Names returns the descriptor names in column order.
func (e *Engine) Names() []string {
	return append([]string(nil), e.names...)
}

// CacheKey identifies a molecule's descriptor row across runs.
func CacheKey(structure string) string {
	return VocabularyVersion + "|" + structure
}

// Compute returns one value per descriptor name: float64, int, bool, or an error
// for undefined descriptors. A panic inside a group marks that group undefined.
func (e *Engine) Compute(mol *smiles.Molecule) []any {
	v := newView(mol)
	row := make([]any, 0, len(e.names))
	for _, g := range registry {
		var vals []any
		err := errors.SafeExecute("descriptor group "+g.name, func() error {
			vals = g.compute(v)
			if len(vals) != len(g.names) {
				return errors.NewDimensionError("descriptor group "+g.name, len(g.names), len(vals), 1)
			}
			return nil
		})
		if err != nil {
			e.logger.Warn("descriptor group failed", err,
				log.DescriptorKey, g.name,
				log.StructureKey, mol.Input,
			)
			vals = allUndefined(g.names, err.Error())
		}
		row = append(row, vals...)
	}
	return row
}

// Table computes descriptor rows for every molecule in parallel. ids and mols are
// paired by index and every molecule must be non-nil; row order follows the input.
func (e *Engine) Table(ctx context.Context, ids []string, mols []*smiles.Molecule) (*dataset.DescriptorTable, error) {
	if len(ids) != len(mols) {
		return nil, errors.NewDimensionError("Engine.Table", len(ids), len(mols), 0)
	}
	for i, m := range mols {
		if m == nil {
			return nil, errors.NewValueError("Engine.Table", fmt.Sprintf("molecule %s (index %d) is nil", ids[i], i))
		}
	}

	start := time.Now()
	rows := make([][]any, len(mols))
	var cacheHits int64
	hits := make([]bool, len(mols))

	err := parallel.ForEach(ctx, len(mols), e.workers, func(i int) error {
		key := CacheKey(mols[i].Input)
		if e.cache != nil {
			cached, ok, err := e.cache.Get(ctx, key)
			if err != nil {
				e.logger.Warn("descriptor cache read failed", err, log.MoleculeIDKey, ids[i])
			} else if ok && len(cached) == len(e.names) {
				rows[i] = cached
				hits[i] = true
				return nil
			}
		}
		rows[i] = e.Compute(mols[i])
		if e.cache != nil {
			if err := e.cache.Put(ctx, key, rows[i]); err != nil {
				e.logger.Warn("descriptor cache write failed", err, log.MoleculeIDKey, ids[i])
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "compute descriptor table")
	}

	table := dataset.NewDescriptorTable(e.names)
	for i, row := range rows {
		if hits[i] {
			cacheHits++
		}
		if err := table.AppendRow(ids[i], row); err != nil {
			return nil, err
		}
	}

	e.logger.Info("descriptor table computed",
		log.OperationKey, log.OperationCompute,
		log.MoleculesKey, len(mols),
		log.FeaturesKey, len(e.names),
		log.WorkersKey, e.workers,
		"cache_hits", cacheHits,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return table, nil
}
