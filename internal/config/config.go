// Package config loads Key's optional `.key.yaml` configuration file:
// default plugin search paths and the distribution tag stamped into
// panic output. Search-path precedence favors cwd before fallback
// directories, parsed with the goccy/go-yaml dependency — the same
// library internal/builtins' Cfg pseudo-class uses for script-level
// YAML.
package config

import (
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

const fileName = ".key.yaml"

// Config is the parsed shape of a `.key.yaml` file. Every field is
// optional; zero values fall back to the engine's built-in defaults.
type Config struct {
	Distribution string   `yaml:"distribution"`
	PluginPaths  []string `yaml:"pluginPaths"`
}

// Load searches cwd then $HOME for a `.key.yaml` file and parses the
// first one found. Returns a zero Config (not an error) if neither
// directory has one.
func Load() (*Config, error) {
	for _, dir := range searchDirs() {
		path := filepath.Join(dir, fileName)
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		var cfg Config
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
		return &cfg, nil
	}
	return &Config{}, nil
}

func searchDirs() []string {
	var dirs []string
	if cwd, err := os.Getwd(); err == nil {
		dirs = append(dirs, cwd)
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, home)
	}
	return dirs
}
