// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Data DataFileConfig `toml:"data"`
	Fit  FitFileConfig  `toml:"fit"`
}

// DataFileConfig maps input-table settings.
type DataFileConfig struct {
	Stimuli      *string `toml:"stimuli"`
	Norms        *string `toml:"norms"`
	Participants *string `toml:"participants"`
	Workers      *int    `toml:"workers"`
}

// FitFileConfig maps model-fit settings.
type FitFileConfig struct {
	Predictors *string `toml:"predictors"`
	Subset     *string `toml:"subset"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
