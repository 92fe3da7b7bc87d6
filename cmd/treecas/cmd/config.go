// Copyright © 2026 TreeCAS Authors

package cmd

import (
	"github.com/spf13/viper"
)

// CLIConfig describes the CLI configuration.
type CLIConfig struct {
	// bug in viper? Need to keep names of fields the same as the serialized names..
	Store    string `json:"store" yaml:"store"`       // Path to the object store root
	LogLevel string `json:"loglevel" yaml:"loglevel"` // Default logging level
}

func newConfig() (*CLIConfig, error) {
	var config CLIConfig
	err := viper.Unmarshal(&config)
	if err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *CLIConfig) setTreecasParams(flags *flagsT) {
	if flags.store.Path == "" {
		flags.store.Path = c.Store
	}
	if flags.root.logLevel == "" {
		flags.root.logLevel = c.LogLevel
	}
}
