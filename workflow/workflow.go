// Package workflow wires the components into the end-to-end runs exposed by the
// command line: descriptor extraction, model evaluation and prediction.
package workflow

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/YuminosukeSato/moldesc/chem/descriptor"
	"github.com/YuminosukeSato/moldesc/chem/smiles"
	"github.com/YuminosukeSato/moldesc/dataset"
	"github.com/YuminosukeSato/moldesc/internal/telemetry"
	"github.com/YuminosukeSato/moldesc/pipeline"
	"github.com/YuminosukeSato/moldesc/pkg/errors"
	"github.com/YuminosukeSato/moldesc/pkg/log"
	"github.com/YuminosukeSato/moldesc/preprocessing"
	"github.com/YuminosukeSato/moldesc/report"
)

// Stage names recorded in telemetry.
const (
	StageLoad        = "load"
	StageParse       = "parse"
	StageDescriptors = "descriptors"
	StageClean       = "clean"
	StageEvaluate    = "evaluate"
	StageOutput      = "output"
)

// Plot file names written under Options.PlotDir.
const (
	ParityPlotFile   = "parity.png"
	VariancePlotFile = "explained_variance.png"
)

// Options configures a run.
type Options struct {
	DataPath string
	Load     dataset.LoadOptions
	// Target is the property to predict. Empty means the first of Load.TargetFields.
	Target string
	// SampleSize > 0 draws that many records with Seed before parsing.
	SampleSize int
	Seed       uint64
	Workers    int
	Cache      descriptor.Cache
	CSVOut     string

	Eval     pipeline.EvalConfig
	ModelOut string
	PlotDir  string

	Metrics *telemetry.Metrics
}

// statsCache is implemented by caches that count their lookups.
type statsCache interface {
	Stats() (hits, misses int64)
}

func (o Options) target() string {
	if o.Target != "" {
		return o.Target
	}
	if len(o.Load.TargetFields) > 0 {
		return o.Load.TargetFields[0]
	}
	return dataset.DefaultLoadOptions().TargetFields[0]
}

func (o Options) loadOptions() dataset.LoadOptions {
	lo := o.Load
	if o.Target != "" && !contains(lo.TargetFields, o.Target) {
		lo.TargetFields = append(append([]string(nil), lo.TargetFields...), o.Target)
	}
	return lo
}

// extraction is the state shared by Descriptors and Run.
type extraction struct {
	data    *dataset.Dataset
	table   *dataset.DescriptorTable
	summary *report.Summary
}

// Descriptors loads the dataset, parses every structure and computes the raw
// descriptor table. Structures that fail to parse are logged and excluded.
func Descriptors(ctx context.Context, opts Options) (*dataset.DescriptorTable, *report.Summary, error) {
	ex, err := extract(ctx, opts)
	if err != nil {
		return nil, nil, err
	}
	return ex.table, ex.summary, nil
}

func extract(ctx context.Context, opts Options) (*extraction, error) {
	logger := log.GetLoggerWithName("workflow")
	m := opts.Metrics

	start := time.Now()
	data, err := dataset.Load(ctx, opts.DataPath, opts.loadOptions())
	if err != nil {
		return nil, err
	}
	if opts.SampleSize > 0 {
		data = data.Sample(opts.SampleSize, opts.Seed)
	}
	m.ObserveStage(StageLoad, start)
	m.Molecules(telemetry.StatusLoaded, data.Len())

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start = time.Now()
	mols, errs := smiles.ParseAll(data.Structures())
	ids := data.IDs()
	keep := make([]int, 0, len(mols))
	for i, err := range errs {
		if err != nil {
			logger.Warn("structure excluded", err,
				log.MoleculeIDKey, ids[i],
				log.StructureKey, data.Records[i].Structure,
			)
			continue
		}
		keep = append(keep, i)
	}
	failures := len(mols) - len(keep)
	m.ObserveStage(StageParse, start)
	m.Molecules(telemetry.StatusParsed, len(keep))
	m.Molecules(telemetry.StatusFailed, failures)
	if len(keep) == 0 {
		return nil, errors.Wrapf(errors.ErrEmptyData, "no structure in %s could be parsed", opts.DataPath)
	}
	if failures > 0 {
		logger.Info("structures parsed",
			log.MoleculesKey, len(keep),
			log.ParseFailuresKey, failures,
		)
	}

	data = data.Subset(keep)
	parsed := make([]*smiles.Molecule, len(keep))
	for k, i := range keep {
		parsed[k] = mols[i]
	}

	start = time.Now()
	engine := descriptor.NewEngine(
		descriptor.WithWorkers(opts.Workers),
		descriptor.WithCache(opts.Cache),
	)
	table, err := engine.Table(ctx, data.IDs(), parsed)
	if err != nil {
		return nil, err
	}
	m.ObserveStage(StageDescriptors, start)
	m.Columns("computed", table.Cols())
	if sc, ok := opts.Cache.(statsCache); ok {
		m.CacheLookups(sc.Stats())
	}

	if opts.CSVOut != "" {
		if err := writeCSV(opts.CSVOut, table); err != nil {
			return nil, err
		}
	}

	return &extraction{
		data:  data,
		table: table,
		summary: &report.Summary{
			Source:        opts.DataPath,
			Target:        opts.target(),
			Molecules:     data.Len(),
			ParseFailures: failures,
			Descriptors:   table.Cols(),
		},
	}, nil
}

// Run executes the whole pipeline: extraction, cleaning, hold-out evaluation of every
// configuration in opts.Eval, then the optional model, plot and CSV outputs.
func Run(ctx context.Context, opts Options) (*report.Summary, *pipeline.Report, error) {
	m := opts.Metrics
	ex, err := extract(ctx, opts)
	if err != nil {
		return nil, nil, err
	}
	summary := ex.summary

	y, err := ex.data.Target(summary.Target)
	if err != nil {
		return nil, nil, err
	}

	start := time.Now()
	features, cleaning, err := preprocessing.Clean(ex.table)
	if err != nil {
		return nil, nil, err
	}
	m.ObserveStage(StageClean, start)
	m.Columns("kept", cleaning.Kept)
	summary.Cleaning = cleaning

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	start = time.Now()
	eval, err := pipeline.Evaluate(ctx, features, y, opts.Eval)
	if err != nil {
		return nil, nil, err
	}
	m.ObserveStage(StageEvaluate, start)
	for _, r := range eval.Results {
		m.Score(r.Components, r.R2, r.Alpha)
	}
	summary.Evaluation = eval

	start = time.Now()
	if err := writeOutputs(opts, eval, summary); err != nil {
		return nil, nil, err
	}
	m.ObserveStage(StageOutput, start)
	return summary, eval, nil
}

// writeOutputs saves the first configuration's pipeline and the plots.
func writeOutputs(opts Options, eval *pipeline.Report, summary *report.Summary) error {
	if len(eval.Results) == 0 {
		return nil
	}
	best := eval.Results[0]

	if opts.ModelOut != "" {
		if err := best.Pipeline.Save(opts.ModelOut); err != nil {
			return err
		}
		summary.ModelPath = opts.ModelOut
	}

	if opts.PlotDir == "" {
		return nil
	}
	if err := os.MkdirAll(opts.PlotDir, 0o750); err != nil {
		return errors.Wrapf(err, "create plot directory %s", opts.PlotDir)
	}
	parity := filepath.Join(opts.PlotDir, ParityPlotFile)
	title := summary.Target + " (" + best.Config.String() + ")"
	if err := report.ParityPlot(parity, title, eval.Actual, best.Predicted); err != nil {
		return err
	}
	summary.Plots = append(summary.Plots, parity)

	if pca := best.Pipeline.PCA(); pca != nil {
		variance := filepath.Join(opts.PlotDir, VariancePlotFile)
		if err := report.ExplainedVariancePlot(variance, pca.ExplainedVarianceRatio()); err != nil {
			return err
		}
		summary.Plots = append(summary.Plots, variance)
	}
	return nil
}

func writeCSV(path string, table *dataset.DescriptorTable) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return errors.Wrapf(err, "create directory %s", dir)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = errors.Wrapf(cerr, "close %s", path)
		}
	}()
	return table.WriteCSV(f)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
