package config

import (
	"github.com/spf13/viper"

	"github.com/YuminosukeSato/moldesc/dataset"
	"github.com/YuminosukeSato/moldesc/pipeline"
	"github.com/YuminosukeSato/moldesc/report"
)

// Default values.
const (
	DefaultStructureField = "smiles"
	DefaultIDField        = "mol_id"
	DefaultTarget         = "gap"
	DefaultModelType      = pipeline.ModelLasso
	DefaultTestSize       = 0.1
	DefaultCV             = 5
	DefaultNAlphas        = 100
	DefaultFormat         = report.FormatText
	DefaultLogLevel       = "info"
)

// DefaultComponents are the PCA sizes evaluated when none are configured.
func DefaultComponents() []int { return []int{16, 8, 0} }

// NewDefaultConfig returns a Config with every default applied.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero-valued fields. Seeds, workers, sample size and output
// paths keep their zero values, which mean "unset".
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}
	if cfg.Data.StructureField == "" {
		cfg.Data.StructureField = DefaultStructureField
	}
	if cfg.Data.IDField == "" {
		cfg.Data.IDField = DefaultIDField
	}
	if cfg.Data.Target == "" {
		cfg.Data.Target = DefaultTarget
	}

	if cfg.Model.Type == "" {
		cfg.Model.Type = DefaultModelType
	}
	if cfg.Model.Components == nil {
		cfg.Model.Components = DefaultComponents()
	}
	if cfg.Model.TestSize == 0 {
		cfg.Model.TestSize = DefaultTestSize
	}
	if cfg.Model.CV == 0 {
		cfg.Model.CV = DefaultCV
	}
	if cfg.Model.NAlphas == 0 {
		cfg.Model.NAlphas = DefaultNAlphas
	}

	if cfg.Output.Format == "" {
		cfg.Output.Format = DefaultFormat
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
}

// registerKeys makes every key known to viper so that MOLDESC_* variables are
// honoured by Unmarshal even when the key is absent from the file.
func registerKeys(v *viper.Viper) {
	def := dataset.DefaultLoadOptions()
	v.SetDefault("data.path", "")
	v.SetDefault("data.structure_field", def.StructureField)
	v.SetDefault("data.id_field", def.IDField)
	v.SetDefault("data.target", def.TargetFields[0])
	v.SetDefault("data.sample_size", 0)
	v.SetDefault("data.seed", 0)

	v.SetDefault("descriptors.workers", 0)
	v.SetDefault("descriptors.cache_path", "")
	v.SetDefault("descriptors.csv_out", "")

	v.SetDefault("model.type", DefaultModelType)
	v.SetDefault("model.components", DefaultComponents())
	v.SetDefault("model.test_size", DefaultTestSize)
	v.SetDefault("model.cv", DefaultCV)
	v.SetDefault("model.n_alphas", DefaultNAlphas)
	v.SetDefault("model.seed", 0)

	v.SetDefault("output.model_path", "")
	v.SetDefault("output.plot_dir", "")
	v.SetDefault("output.format", DefaultFormat)
	v.SetDefault("output.metrics_path", "")

	v.SetDefault("log.level", DefaultLogLevel)
}
