package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/curamesh/aigateway/secret"
)

// Load reads a YAML configuration file, expands ${ENV} references in it,
// merges it over Default, and validates the result.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse parses YAML configuration bytes over the defaults.
func Parse(raw []byte) (*Config, error) {
	expanded, err := secret.ExpandEnvStrict(string(raw))
	if err != nil {
		return nil, fmt.Errorf("config: expanding environment: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("config: parsing yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
