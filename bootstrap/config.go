package bootstrap

import (
	"github.com/kbukum/seqkit/config"
)

// Config is the interface constraint for application configuration types.
// Any struct that embeds config.ServiceConfig (value embedding) satisfies it
// via promoted methods.
//
//	type SeqqConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Input InputConfig `yaml:"input" mapstructure:"input"`
//	}
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
