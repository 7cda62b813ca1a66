// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/ceylinesp/quizlet/internal/model"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Drill DrillConfig `toml:"drill"`
	Log   LogConfig   `toml:"log"`
}

// DrillConfig maps drill-related settings.
type DrillConfig struct {
	Dataset   *string `toml:"dataset"`
	Delimiter *string `toml:"delimiter"`
	Size      *int    `toml:"size"`
	Direction *string `toml:"direction"`
	Modality  *string `toml:"modality"`
	Threshold *int    `toml:"threshold"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
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
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

// DefaultTemplate returns the commented config written by `quizlet config`.
func DefaultTemplate(defaults model.Config) string {
	return fmt.Sprintf(`# quizlet configuration
# Uncomment a value to enable it. Environment variables (QUIZLET_*) override
# this file and CLI flags override both.

[drill]
# dataset = %q
# delimiter = %q          # ",", ";" or "auto"
# size = %d                 # Number of weakest words per round
# direction = %q   # or "translation-to-term"
# modality = %q           # "mixed", "written" or "choice"
# threshold = %d             # Correct answers that retire a word

[log]
# level = %q
`,
		defaults.DatasetPath,
		defaults.Delimiter,
		defaults.Size,
		defaults.Direction,
		defaults.Modality,
		defaults.Threshold,
		defaults.LogLevel,
	)
}
