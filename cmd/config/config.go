// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
	"github.com/xataio/esdoc/pkg/client"
	"github.com/xataio/esdoc/pkg/otel"
)

// Config is the configuration of the esdoc commands.
type Config struct {
	Client client.Config
	Save   client.SaveOptions
}

var errInvalidSampleRatio = errors.New("trace sample ratio must be between 0 and 1")

func Load() error {
	return LoadFile(viper.GetString("config"))
}

func LoadFile(file string) error {
	if file == "" {
		return nil
	}

	ext := filepath.Ext(file)
	if ext == "" {
		return fmt.Errorf("config file %s has no extension, expected .env or .yaml", file)
	}
	viper.SetConfigFile(file)
	viper.SetConfigType(ext[1:])
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

// ParseConfig returns the configuration from the loaded file, the
// environment and the command flags.
func ParseConfig() (*Config, error) {
	if !isYAML() {
		return envToConfig(), nil
	}

	yamlCfg := YAMLConfig{}
	if err := viper.Unmarshal(&yamlCfg); err != nil {
		return nil, err
	}
	return yamlCfg.toConfig(), nil
}

func ParseInstrumentationConfig() (*otel.Config, error) {
	if !isYAML() {
		return envToOtelConfig()
	}

	yamlCfg := YAMLConfig{}
	if err := viper.Unmarshal(&yamlCfg); err != nil {
		return nil, err
	}
	if yamlCfg.Instrumentation == nil {
		return nil, nil
	}
	return yamlCfg.Instrumentation.toOtelConfig()
}

func LogLevel() string {
	if isYAML() {
		return viper.GetString("log.level")
	}
	// env config, or CLI flag when no configuration is provided
	return viper.GetString("ESDOC_LOG_LEVEL")
}

func isYAML() bool {
	switch filepath.Ext(viper.GetViper().ConfigFileUsed()) {
	case ".yml", ".yaml":
		return true
	default:
		return false
	}
}

func validateSampleRatio(ratio float64) error {
	if ratio < 0 || ratio > 1 {
		return fmt.Errorf("%w: %v", errInvalidSampleRatio, ratio)
	}
	return nil
}
