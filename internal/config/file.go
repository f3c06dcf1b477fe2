package config

import (
	"os"

	"github.com/goccy/go-yaml"

	"github.com/multiquadlet-dev/multiquadlet/internal/apperrors"
)

// fileConfig is the optional config file (/etc/multiquadlet/config.yaml,
// or $XDG_CONFIG_HOME/multiquadlet/config.yaml in user scope).
type fileConfig struct {
	UnitDir    string `yaml:"unit_dir"`
	StagingDir string `yaml:"staging_dir"`
	Generator  string `yaml:"generator"`
}

// loadFile reads the config file at path. A missing or empty path is not
// an error; a present but unreadable or malformed file is, since silently
// ignoring it would run with directories the operator did not intend.
func loadFile(path string) (*fileConfig, error) {
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewConfigurationError(path, "cannot read config file", err)
	}

	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, apperrors.NewConfigurationError(path, "cannot parse config file", err)
	}
	return &cfg, nil
}
