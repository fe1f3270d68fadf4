package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by errors returned for configurations that fail
// validation.
var ErrInvalid = errors.New("invalid configuration")

// Load reads a YAML file over the defaults: keys missing from the file keep
// their default values. A relative scene.file is resolved against the
// config file's directory. The result is not validated.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if f := cfg.Scene.File; f != "" && !filepath.IsAbs(f) {
		cfg.Scene.File = filepath.Join(filepath.Dir(path), f)
	}
	return cfg, nil
}

// Check validates cfg and returns a single error wrapping ErrInvalid that
// lists every problem, or nil.
func (c *Config) Check() error {
	errs := c.Validate()
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w\n%s", ErrInvalid, FormatValidationErrors(errs))
}

// Marshal encodes the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return data, nil
}

// SaveToFile writes the configuration as YAML.
func (c *Config) SaveToFile(path string) error {
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
