package observability

import (
	"time"

	"github.com/kbukum/seqkit/validation"
)

// Config controls OTLP export.
type Config struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint" validate:"omitempty,hostname_port"`
	// Insecure allows plain HTTP connections.
	Insecure bool `yaml:"insecure" mapstructure:"insecure"`
	// SampleRate is the trace sampling rate (0.0 to 1.0).
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate" validate:"gte=0,lte=1"`
	// Interval is the metric export interval.
	Interval time.Duration `yaml:"interval" mapstructure:"interval" validate:"gte=0"`
}

// ServiceInfo describes the process in exported telemetry.
type ServiceInfo struct {
	Name        string
	Version     string
	Environment string
}

// DefaultConfig returns export disabled with development settings.
func DefaultConfig() Config {
	return Config{
		Enabled:    false,
		Endpoint:   "localhost:4318",
		Insecure:   true,
		SampleRate: 1.0,
		Interval:   15 * time.Second,
	}
}

// Defaults returns loader defaults for the config keys under prefix.
func Defaults(prefix string) map[string]any {
	d := DefaultConfig()
	return map[string]any{
		prefix + ".enabled":     d.Enabled,
		prefix + ".endpoint":    d.Endpoint,
		prefix + ".insecure":    d.Insecure,
		prefix + ".sample_rate": d.SampleRate,
		prefix + ".interval":    d.Interval.String(),
	}
}

// Validate checks field ranges and requires an endpoint when export is enabled.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	return validation.New().
		Custom(!c.Enabled || c.Endpoint != "", "endpoint", "is required when enabled").
		Err()
}
