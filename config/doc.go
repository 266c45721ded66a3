// Package config loads tool configuration with Viper.
//
// A YAML file is read first, then a .env file is applied to the process
// environment, and finally environment variables prefixed with the tool
// name override individual keys: SEQQ_LOGGING_LEVEL sets logging.level.
//
// # Usage
//
//	type Config struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Input InputConfig    `yaml:"input" mapstructure:"input"`
//	}
//
//	var cfg Config
//	err := config.LoadConfig("seqq", &cfg, config.WithConfigFile(path))
package config
