// Package config loads the optional profile file. Command-line flags and
// environment variables always win over values set here.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Profile is the ~/.gestor/config.yaml file.
type Profile struct {
	BaseURL  string `yaml:"base_url"`
	CacheDir string `yaml:"cache_dir"`
}

// Load reads the profile at path, or the default location when path is
// empty. A missing file yields an empty profile, not an error.
func Load(path string) (*Profile, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, ".gestor", "config.yaml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Profile{}, nil
		}
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse profile %s: %w", path, err)
	}

	log.Debug().Str("path", path).Msg("profile loaded")

	return &p, nil
}
