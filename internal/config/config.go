// Package config captures the process environment once at startup into an
// explicit configuration value. The operating scope (system or user) fixes
// the unit-source directory, the staging location and the external
// generator path; an optional config file and MULTIQUADLET_* environment
// variables may override them.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/multiquadlet-dev/multiquadlet/internal/apperrors"
)

// ToolName is the name this tool reports in provenance headers and logs.
const ToolName = "multiquadlet-generator"

// Scope selects the service-manager instance the generator serves.
type Scope string

const (
	// ScopeSystem serves the system service manager.
	ScopeSystem Scope = "system"
	// ScopeUser serves a per-user service manager.
	ScopeUser Scope = "user"
)

// Config is the resolved runtime configuration for one generator run.
type Config struct {
	Scope         Scope
	UnitDir       string // directory holding authored unit sources
	StagingDir    string // root of the run-scoped staging area
	GeneratorPath string // external Quadlet generator executable
}

// Load resolves the configuration from the environment and the optional
// config file. SYSTEMD_SCOPE=user selects user scope and requires
// XDG_RUNTIME_DIR; any other value means system scope.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("MULTIQUADLET")
	v.AutomaticEnv()

	scope := ScopeSystem
	if os.Getenv("SYSTEMD_SCOPE") == string(ScopeUser) {
		scope = ScopeUser
	}

	cfg := &Config{Scope: scope}
	switch scope {
	case ScopeUser:
		runtimeDir := os.Getenv("XDG_RUNTIME_DIR")
		if runtimeDir == "" {
			return nil, apperrors.NewConfigurationError("XDG_RUNTIME_DIR",
				"SYSTEMD_SCOPE is 'user' but XDG_RUNTIME_DIR is not set", nil)
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, apperrors.NewConfigurationError("HOME", "cannot resolve home directory", err)
		}
		cfg.UnitDir = filepath.Join(home, ".config", "containers", "multiquadlet")
		cfg.StagingDir = filepath.Join(runtimeDir, "multiquadlet-generated")
		cfg.GeneratorPath = "/usr/lib/systemd/user-generators/podman-user-generator"
	default:
		cfg.UnitDir = "/etc/containers/multiquadlet"
		cfg.StagingDir = "/run/multiquadlet-generated"
		cfg.GeneratorPath = "/usr/lib/systemd/system-generators/podman-system-generator"
	}

	fileCfg, err := loadFile(configFilePath(scope))
	if err != nil {
		return nil, err
	}
	cfg.apply(fileCfg)

	// Environment overrides beat the config file.
	if dir := v.GetString("unit_dir"); dir != "" {
		cfg.UnitDir = dir
	}
	if gen := v.GetString("generator"); gen != "" {
		cfg.GeneratorPath = gen
	}

	return cfg, nil
}

func (c *Config) apply(f *fileConfig) {
	if f == nil {
		return
	}
	if f.UnitDir != "" {
		c.UnitDir = f.UnitDir
	}
	if f.StagingDir != "" {
		c.StagingDir = f.StagingDir
	}
	if f.Generator != "" {
		c.GeneratorPath = f.Generator
	}
}

func configFilePath(scope Scope) string {
	if scope == ScopeUser {
		configHome := os.Getenv("XDG_CONFIG_HOME")
		if configHome == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return ""
			}
			configHome = filepath.Join(home, ".config")
		}
		return filepath.Join(configHome, "multiquadlet", "config.yaml")
	}
	return "/etc/multiquadlet/config.yaml"
}
