package main

import (
	"fmt"

	"github.com/kbukum/seqkit/config"
	"github.com/kbukum/seqkit/observability"
	"github.com/kbukum/seqkit/util"
	"github.com/kbukum/seqkit/validation"
)

const (
	appName        = "seqq"
	defaultMaxSize = "10MB"
)

// Config is the seqq configuration.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Input                InputConfig          `yaml:"input" mapstructure:"input"`
	Observability        observability.Config `yaml:"observability" mapstructure:"observability"`
}

// InputConfig bounds plan sources.
type InputConfig struct {
	// MaxSize caps the bytes read from one lines source (e.g., "512KB", "10MB").
	MaxSize string `yaml:"max_size" mapstructure:"max_size" validate:"omitempty,bytesize"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.Input.MaxSize = util.Coalesce(c.Input.MaxSize, defaultMaxSize)
}

// Validate checks the whole configuration.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := validation.Validate(c.Input); err != nil {
		return fmt.Errorf("config.input: %w", err)
	}
	if err := c.Observability.Validate(); err != nil {
		return fmt.Errorf("config.observability: %w", err)
	}
	return nil
}

// MaxInputBytes returns Input.MaxSize in bytes.
func (c *Config) MaxInputBytes() int64 {
	return util.ParseSize(c.Input.MaxSize, util.ParseSize(defaultMaxSize, 0))
}

func loaderDefaults() map[string]any {
	d := config.ServiceDefaults(appName)
	for k, v := range observability.Defaults("observability") {
		d[k] = v
	}
	d["input.max_size"] = defaultMaxSize
	return d
}

// loadConfig reads seqq.yml (or the file at path), SEQQ_* variables, and .env.
func loadConfig(path string, opts ...config.LoaderOption) (*Config, error) {
	opts = append([]config.LoaderOption{config.WithDefaults(loaderDefaults())}, opts...)
	if path != "" {
		opts = append(opts, config.WithConfigFile(path))
	}
	var cfg Config
	if err := config.LoadConfig(appName, &cfg, opts...); err != nil {
		return nil, err
	}
	return &cfg, nil
}
