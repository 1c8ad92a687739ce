// Package config defines the run configuration of moldesc and loads it from a
// YAML file and MOLDESC_* environment variables.
package config

import (
	"fmt"

	"github.com/YuminosukeSato/moldesc/dataset"
	"github.com/YuminosukeSato/moldesc/pipeline"
	"github.com/YuminosukeSato/moldesc/pkg/errors"
	"github.com/YuminosukeSato/moldesc/pkg/log"
	"github.com/YuminosukeSato/moldesc/report"
)

// DataConfig locates the molecule file and its fields.
type DataConfig struct {
	Path           string `mapstructure:"path"`
	StructureField string `mapstructure:"structure_field"`
	IDField        string `mapstructure:"id_field"`
	Target         string `mapstructure:"target"`
	// SampleSize > 0 draws that many molecules before parsing.
	SampleSize int    `mapstructure:"sample_size"`
	Seed       uint64 `mapstructure:"seed"`
}

// DescriptorConfig controls descriptor computation.
type DescriptorConfig struct {
	Workers   int    `mapstructure:"workers"`
	CachePath string `mapstructure:"cache_path"`
	CSVOut    string `mapstructure:"csv_out"`
}

// ModelConfig controls the evaluated pipelines.
type ModelConfig struct {
	Type       string  `mapstructure:"type"` // "lasso" | "ols"
	Components []int   `mapstructure:"components"`
	TestSize   float64 `mapstructure:"test_size"`
	CV         int     `mapstructure:"cv"`
	NAlphas    int     `mapstructure:"n_alphas"`
	Seed       uint64  `mapstructure:"seed"`
}

// OutputConfig names the files a run writes.
type OutputConfig struct {
	ModelPath   string `mapstructure:"model_path"`
	PlotDir     string `mapstructure:"plot_dir"`
	Format      string `mapstructure:"format"` // "text" | "json"
	MetricsPath string `mapstructure:"metrics_path"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Config is the root configuration.
type Config struct {
	Data        DataConfig       `mapstructure:"data"`
	Descriptors DescriptorConfig `mapstructure:"descriptors"`
	Model       ModelConfig      `mapstructure:"model"`
	Output      OutputConfig     `mapstructure:"output"`
	Log         LogConfig        `mapstructure:"log"`
}

// Validate checks every section. The data path is not required here because
// predict runs without one; see RequireData.
func (c *Config) Validate() error {
	if c.Data.StructureField == "" {
		return errors.NewValidationError("data.structure_field", "is required", c.Data.StructureField)
	}
	if c.Data.Target == "" {
		return errors.NewValidationError("data.target", "is required", c.Data.Target)
	}
	if c.Data.SampleSize < 0 {
		return errors.NewValidationError("data.sample_size", "must be >= 0", c.Data.SampleSize)
	}
	if c.Descriptors.Workers < 0 {
		return errors.NewValidationError("descriptors.workers", "must be >= 0", c.Descriptors.Workers)
	}

	switch c.Model.Type {
	case pipeline.ModelLasso, pipeline.ModelOLS:
	default:
		return errors.NewValidationError("model.type", "expected lasso|ols", c.Model.Type)
	}
	if len(c.Model.Components) == 0 {
		return errors.NewValidationError("model.components", "at least one value is required", c.Model.Components)
	}
	for _, k := range c.Model.Components {
		if k < 0 {
			return errors.NewValidationError("model.components", "values must be >= 0", c.Model.Components)
		}
	}
	if c.Model.TestSize <= 0 || c.Model.TestSize >= 1 {
		return errors.NewValidationError("model.test_size", "must be in (0, 1)", c.Model.TestSize)
	}
	if c.Model.CV < 2 {
		return errors.NewValidationError("model.cv", "must be >= 2", c.Model.CV)
	}
	if c.Model.NAlphas < 1 {
		return errors.NewValidationError("model.n_alphas", "must be >= 1", c.Model.NAlphas)
	}

	switch c.Output.Format {
	case report.FormatText, report.FormatJSON:
	default:
		return errors.NewValidationError("output.format", "expected text|json", c.Output.Format)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return errors.NewValidationError("log.level", "expected debug|info|warn|error", c.Log.Level)
	}
	return nil
}

// RequireData reports an error when no input file is configured.
func (c *Config) RequireData() error {
	if c.Data.Path == "" {
		return errors.NewValidationError("data.path", "is required (set it in the config file, MOLDESC_DATA_PATH or --data)", c.Data.Path)
	}
	return nil
}

// LoadOptions returns the loader field mapping.
func (c *Config) LoadOptions() dataset.LoadOptions {
	return dataset.LoadOptions{
		StructureField: c.Data.StructureField,
		IDField:        c.Data.IDField,
		TargetFields:   []string{c.Data.Target},
	}
}

// EvalConfig returns the evaluation settings.
func (c *Config) EvalConfig() pipeline.EvalConfig {
	return pipeline.EvalConfig{
		TestSize:   c.Model.TestSize,
		Seed:       c.Model.Seed,
		Components: append([]int(nil), c.Model.Components...),
		Model:      c.Model.Type,
		CV:         c.Model.CV,
		NAlphas:    c.Model.NAlphas,
		Workers:    c.Descriptors.Workers,
	}
}

// String summarises the settings that change results.
func (c *Config) String() string {
	return fmt.Sprintf("data=%s target=%s model=%s components=%v test_size=%g cv=%d seed=%d",
		c.Data.Path, c.Data.Target, c.Model.Type, c.Model.Components, c.Model.TestSize, c.Model.CV, c.Model.Seed)
}
