package config

import (
	"fmt"

	"github.com/kbukum/seqkit/logger"
	"github.com/kbukum/seqkit/validation"
)

// ServiceConfig contains the fields every seqkit tool needs.
// Tools extend it by embedding it in their own config structs.
//
// Example:
//
//	type Config struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Input InputConfig    `yaml:"input" mapstructure:"input"`
//	}
type ServiceConfig struct {
	Name        string        `yaml:"name" mapstructure:"name" validate:"required"`
	Environment string        `yaml:"environment" mapstructure:"environment" validate:"oneof=development staging production"`
	Version     string        `yaml:"version" mapstructure:"version"`
	Debug       bool          `yaml:"debug" mapstructure:"debug"`
	Logging     logger.Config `yaml:"logging" mapstructure:"logging"`
}

// GetServiceConfig returns the base ServiceConfig.
// When embedded in a larger config struct, this method is promoted.
func (c *ServiceConfig) GetServiceConfig() *ServiceConfig {
	return c
}

// ServiceDefaults returns loader defaults for the ServiceConfig keys, for use
// with WithDefaults. Registering them lets NAME_LOGGING_LEVEL and similar
// variables override a config file or stand in for a missing one.
func ServiceDefaults(name string) map[string]any {
	return map[string]any{
		"name":             name,
		"environment":      "development",
		"version":          "",
		"debug":            false,
		"logging.level":    "info",
		"logging.format":   "console",
		"logging.output":   "stderr",
		"logging.no_color": false,
		"logging.caller":   false,
	}
}

// ApplyDefaults applies default values to the base configuration.
// Embedding structs should call c.ServiceConfig.ApplyDefaults() first.
func (c *ServiceConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Debug && c.Logging.Level == "" {
		c.Logging.Level = "debug"
	}
	c.Logging.ApplyDefaults()
}

// Validate validates the base configuration fields.
// Embedding structs should call c.ServiceConfig.Validate() first.
func (c *ServiceConfig) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	return nil
}
