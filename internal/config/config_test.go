package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/moldesc/pkg/errors"
)

const sampleYAML = `
data:
  path: data/qm9.jsonl.gz
  target: homo
  sample_size: 2048
  seed: 3
descriptors:
  workers: 4
  cache_path: cache/descriptors.db
model:
  type: ols
  components: [32, 4]
  test_size: 0.2
output:
  format: json
  plot_dir: plots
log:
  level: debug
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "moldesc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_File(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "data/qm9.jsonl.gz", cfg.Data.Path)
	assert.Equal(t, "homo", cfg.Data.Target)
	assert.Equal(t, 2048, cfg.Data.SampleSize)
	assert.Equal(t, uint64(3), cfg.Data.Seed)
	assert.Equal(t, DefaultStructureField, cfg.Data.StructureField)
	assert.Equal(t, 4, cfg.Descriptors.Workers)
	assert.Equal(t, "ols", cfg.Model.Type)
	assert.Equal(t, []int{32, 4}, cfg.Model.Components)
	assert.Equal(t, 0.2, cfg.Model.TestSize)
	assert.Equal(t, DefaultCV, cfg.Model.CV)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, "debug", cfg.Log.Level)

	lo := cfg.LoadOptions()
	assert.Equal(t, []string{"homo"}, lo.TargetFields)
	ev := cfg.EvalConfig()
	assert.Equal(t, []int{32, 4}, ev.Components)
	assert.Equal(t, 4, ev.Workers)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MOLDESC_MODEL_CV", "7")
	t.Setenv("MOLDESC_DATA_PATH", "/tmp/other.jsonl")
	t.Setenv("MOLDESC_LOG_LEVEL", "warn")

	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Model.CV)
	assert.Equal(t, "/tmp/other.jsonl", cfg.Data.Path)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, DefaultComponents(), cfg.Model.Components)
	assert.Equal(t, DefaultTarget, cfg.Data.Target)
	assert.Equal(t, DefaultModelType, cfg.Model.Type)
	assert.Equal(t, DefaultTestSize, cfg.Model.TestSize)
	assert.Error(t, cfg.RequireData())
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "model:\n  type: forest\n"))
	require.Error(t, err)
	var ve *errors.ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative component", func(c *Config) { c.Model.Components = []int{16, -1} }},
		{"empty components", func(c *Config) { c.Model.Components = []int{} }},
		{"test size one", func(c *Config) { c.Model.TestSize = 1 }},
		{"single fold", func(c *Config) { c.Model.CV = 1 }},
		{"format", func(c *Config) { c.Output.Format = "xml" }},
		{"log level", func(c *Config) { c.Log.Level = "loud" }},
		{"negative workers", func(c *Config) { c.Descriptors.Workers = -2 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			require.NoError(t, cfg.Validate())
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
