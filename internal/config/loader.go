package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/YuminosukeSato/moldesc/pkg/errors"
)

// envPrefix is the environment variable prefix of every setting.
const envPrefix = "MOLDESC"

// newViper returns a Viper that reads YAML and maps nested keys such as
// "model.cv" to MOLDESC_MODEL_CV.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	registerKeys(v)
	return v
}

// Load reads the YAML file at path, applies MOLDESC_* overrides and defaults, and
// validates the result. An empty path loads from the environment only.
func Load(path string) (*Config, error) {
	if path == "" {
		return LoadFromEnv()
	}
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "read config file %q", path)
	}
	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config from MOLDESC_* variables and defaults.
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal configuration")
	}
	ApplyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}
