// Package config loads optional workbench configuration from a file.
// Flags always win over file values; the zero value of every field
// means "unspecified" and leaves the command-line default in place.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds sampler defaults and server settings.
type Config struct {
	Chains int    `json:"chains" yaml:"chains" toml:"chains"`
	Draws  int    `json:"draws" yaml:"draws" toml:"draws"`
	BurnIn int    `json:"burn_in" yaml:"burn_in" toml:"burn_in"`
	Thin   int    `json:"thin" yaml:"thin" toml:"thin"`
	Seed   uint64 `json:"seed" yaml:"seed" toml:"seed"`

	Host string `json:"host" yaml:"host" toml:"host"`
	Port int    `json:"port" yaml:"port" toml:"port"`

	OtelEndpoint string `json:"otel_endpoint" yaml:"otel_endpoint" toml:"otel_endpoint"`
	OtelInsecure bool   `json:"otel_insecure" yaml:"otel_insecure" toml:"otel_insecure"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}
