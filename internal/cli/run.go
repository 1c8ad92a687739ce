package cli

import (
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/moldesc/cache"
	"github.com/YuminosukeSato/moldesc/chem/descriptor"
	"github.com/YuminosukeSato/moldesc/internal/config"
	"github.com/YuminosukeSato/moldesc/internal/telemetry"
	"github.com/YuminosukeSato/moldesc/report"
	"github.com/YuminosukeSato/moldesc/workflow"
)

// dataFlags are the input flags shared by run and descriptors.
type dataFlags struct {
	data    string
	target  string
	sample  int
	workers int
	csvOut  string
}

func (f *dataFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.data, "data", "", "molecule file (JSON lines, optionally gzip/zstd/bzip2 compressed)")
	fs.StringVar(&f.target, "target", "", "target property field")
	fs.IntVar(&f.sample, "sample", 0, "number of molecules to draw (0 = all)")
	fs.IntVar(&f.workers, "workers", 0, "descriptor workers (0 = one per CPU)")
	fs.StringVar(&f.csvOut, "csv-out", "", "write the raw descriptor table to this CSV file")
}

func (f *dataFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	fs := cmd.Flags()
	if fs.Changed("data") {
		cfg.Data.Path = f.data
	}
	if fs.Changed("target") {
		cfg.Data.Target = f.target
	}
	if fs.Changed("sample") {
		cfg.Data.SampleSize = f.sample
	}
	if fs.Changed("workers") {
		cfg.Descriptors.Workers = f.workers
	}
	if fs.Changed("csv-out") {
		cfg.Descriptors.CSVOut = f.csvOut
	}
}

// workflowOptions builds run options from cfg. The returned close function
// releases the descriptor cache.
func workflowOptions(cfg *config.Config, m *telemetry.Metrics) (workflow.Options, func(), error) {
	opts := workflow.Options{
		DataPath:   cfg.Data.Path,
		Load:       cfg.LoadOptions(),
		Target:     cfg.Data.Target,
		SampleSize: cfg.Data.SampleSize,
		Seed:       cfg.Data.Seed,
		Workers:    cfg.Descriptors.Workers,
		CSVOut:     cfg.Descriptors.CSVOut,
		Eval:       cfg.EvalConfig(),
		ModelOut:   cfg.Output.ModelPath,
		PlotDir:    cfg.Output.PlotDir,
		Metrics:    m,
	}
	c, closeFn, err := openCache(cfg)
	if err != nil {
		return opts, nil, err
	}
	opts.Cache = c
	return opts, closeFn, nil
}

// openCache opens the configured descriptor cache, or returns a nil cache when
// none is configured.
func openCache(cfg *config.Config) (descriptor.Cache, func(), error) {
	if cfg.Descriptors.CachePath == "" {
		return nil, func() {}, nil
	}
	c, err := cache.OpenSQLite(cfg.Descriptors.CachePath)
	if err != nil {
		return nil, nil, err
	}
	return c, func() { _ = c.Close() }, nil
}

func newRunCmd() *cobra.Command {
	var (
		df         dataFlags
		components []int
		modelType  string
		modelOut   string
		plotDir    string
		metricsOut string
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Compute descriptors, then fit and evaluate the configured pipelines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			cfg := cliCtx.Config
			df.apply(cmd, cfg)
			fs := cmd.Flags()
			if fs.Changed("components") {
				cfg.Model.Components = components
			}
			if fs.Changed("model") {
				cfg.Model.Type = modelType
			}
			if fs.Changed("model-out") {
				cfg.Output.ModelPath = modelOut
			}
			if fs.Changed("plot-dir") {
				cfg.Output.PlotDir = plotDir
			}
			if fs.Changed("metrics-out") {
				cfg.Output.MetricsPath = metricsOut
			}
			if err := cfg.RequireData(); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			m := telemetry.New()
			opts, closeFn, err := workflowOptions(cfg, m)
			if err != nil {
				return err
			}
			defer closeFn()

			summary, _, err := workflow.Run(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if cfg.Output.MetricsPath != "" {
				if err := m.WriteTextfile(cfg.Output.MetricsPath); err != nil {
					return err
				}
			}
			return report.Write(cmd.OutOrStdout(), cfg.Output.Format, summary)
		},
	}
	df.register(cmd)
	fs := cmd.Flags()
	fs.IntSliceVar(&components, "components", nil, "PCA component counts to evaluate (0 = mean baseline)")
	fs.StringVar(&modelType, "model", "", "regressor: lasso or ols")
	fs.StringVar(&modelOut, "model-out", "", "save the first configuration's fitted pipeline here (.json or .json.gz)")
	fs.StringVar(&plotDir, "plot-dir", "", "write parity and explained-variance plots to this directory")
	fs.StringVar(&metricsOut, "metrics-out", "", "write run metrics in Prometheus textfile format")
	return cmd
}

func newDescriptorsCmd() *cobra.Command {
	var df dataFlags
	cmd := &cobra.Command{
		Use:   "descriptors",
		Short: "Compute the raw descriptor table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			cfg := cliCtx.Config
			df.apply(cmd, cfg)
			if err := cfg.RequireData(); err != nil {
				return err
			}

			opts, closeFn, err := workflowOptions(cfg, nil)
			if err != nil {
				return err
			}
			defer closeFn()

			_, summary, err := workflow.Descriptors(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return report.Write(cmd.OutOrStdout(), cfg.Output.Format, summary)
		},
	}
	df.register(cmd)
	return cmd
}
