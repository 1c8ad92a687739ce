package workflow

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/moldesc/chem/descriptor"
	"github.com/YuminosukeSato/moldesc/chem/smiles"
	"github.com/YuminosukeSato/moldesc/pipeline"
	"github.com/YuminosukeSato/moldesc/pkg/errors"
	"github.com/YuminosukeSato/moldesc/pkg/log"
	"github.com/YuminosukeSato/moldesc/preprocessing"
)

// Prediction is the model output for one input structure. Err is set, and Value
// is NaN, when the structure did not parse or lacks a descriptor the model uses.
type Prediction struct {
	ID        string  `json:"id"`
	Structure string  `json:"structure"`
	Value     float64 `json:"value"`
	Err       error   `json:"-"`
}

// PredictOptions controls descriptor computation during prediction.
type PredictOptions struct {
	// Workers is the descriptor worker count; 0 means one per CPU.
	Workers int
	// Cache, when set, is consulted before computing a structure's descriptors.
	Cache descriptor.Cache
}

// Predict loads a saved pipeline and predicts every structure. ids and structures
// are paired by index. Per-structure problems are reported on the Prediction; only
// failures that affect the whole batch are returned as errors.
func Predict(ctx context.Context, modelPath string, ids, structures []string, opts PredictOptions) ([]Prediction, error) {
	if err := checkPairs(ids, structures); err != nil {
		return nil, err
	}
	p, err := pipeline.Load(modelPath)
	if err != nil {
		return nil, err
	}
	return PredictWith(ctx, p, ids, structures, opts)
}

func checkPairs(ids, structures []string) error {
	if len(ids) != len(structures) {
		return errors.NewDimensionError("Predict", len(ids), len(structures), 0)
	}
	return nil
}

// PredictWith is Predict with an already loaded pipeline.
func PredictWith(ctx context.Context, p *pipeline.Pipeline, ids, structures []string, opts PredictOptions) ([]Prediction, error) {
	if err := checkPairs(ids, structures); err != nil {
		return nil, err
	}
	logger := log.GetLoggerWithName("workflow")
	out := make([]Prediction, len(structures))
	mols, errs := smiles.ParseAll(structures)

	var okIdx []int
	var okIDs []string
	var okMols []*smiles.Molecule
	for i := range structures {
		out[i] = Prediction{ID: ids[i], Structure: structures[i], Value: math.NaN(), Err: errs[i]}
		if errs[i] == nil {
			okIdx = append(okIdx, i)
			okIDs = append(okIDs, ids[i])
			okMols = append(okMols, mols[i])
		}
	}
	if len(okMols) == 0 {
		return out, nil
	}

	engineOpts := []descriptor.Option{descriptor.WithWorkers(opts.Workers)}
	if opts.Cache != nil {
		engineOpts = append(engineOpts, descriptor.WithCache(opts.Cache))
	}
	table, err := descriptor.NewEngine(engineOpts...).Table(ctx, okIDs, okMols)
	if err != nil {
		return nil, err
	}
	names := p.FeatureNames()
	cols := make([]int, len(names))
	for k, name := range names {
		cols[k] = table.ColumnIndex(name)
		if cols[k] < 0 {
			return nil, errors.NewValidationError("feature", "model uses a descriptor this engine does not compute", name)
		}
	}

	// rows whose every model descriptor is defined
	var rows [][]float64
	var rowOut []int
	for r, i := range okIdx {
		vals := make([]float64, len(cols))
		for k, j := range cols {
			vals[k] = preprocessing.ToFloat(table.Cell(r, j))
			if math.IsNaN(vals[k]) {
				out[i].Err = errors.NewValueError("Predict",
					fmt.Sprintf("descriptor %s is undefined for %s", names[k], ids[i]))
				break
			}
		}
		if out[i].Err == nil {
			rows = append(rows, vals)
			rowOut = append(rowOut, i)
		}
	}
	if len(rows) == 0 {
		return out, nil
	}

	X := mat.NewDense(len(rows), len(cols), nil)
	for r, vals := range rows {
		X.SetRow(r, vals)
	}
	pred, err := p.Predict(X)
	if err != nil {
		return nil, err
	}
	for r, i := range rowOut {
		out[i].Value = pred[r]
	}

	failed := len(out) - len(rowOut)
	logger.Info("structures predicted",
		log.OperationKey, log.OperationPredict,
		log.ModelNameKey, p.String(),
		log.MoleculesKey, len(rowOut),
		log.ParseFailuresKey, failed,
	)
	return out, nil
}
