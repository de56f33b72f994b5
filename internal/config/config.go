// Package config loads blox.yaml.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the configuration file looked up in the working directory.
const DefaultFile = "blox.yaml"

type Config struct {
	BaseDir         string `yaml:"base_dir"`
	Listen          string `yaml:"listen"`
	LogLevel        string `yaml:"log_level"`
	LogFormat       string `yaml:"log_format"`
	MaxDepth        int    `yaml:"max_depth"`
	ModuleExtension string `yaml:"module_extension"`
	Watch           bool   `yaml:"watch"`
}

func Default() Config {
	return Config{
		BaseDir:         ".",
		Listen:          ":8080",
		LogLevel:        "info",
		LogFormat:       "text",
		MaxDepth:        200000,
		ModuleExtension: ".blox",
		Watch:           true,
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := Decode(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Decode overlays the YAML document in data onto cfg and validates it.
func Decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return cfg.Validate()
}

func (c Config) Validate() error {
	var issues []string
	if c.BaseDir == "" {
		issues = append(issues, "base_dir must not be empty")
	}
	if c.MaxDepth <= 0 {
		issues = append(issues, fmt.Sprintf("max_depth must be positive, got %d", c.MaxDepth))
	}
	if !strings.HasPrefix(c.ModuleExtension, ".") {
		issues = append(issues, fmt.Sprintf("module_extension must start with '.', got %q", c.ModuleExtension))
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		issues = append(issues, err.Error())
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		issues = append(issues, fmt.Sprintf("log_format must be text or json, got %q", c.LogFormat))
	}
	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

// ValidationError aggregates configuration problems.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	return "invalid configuration: " + strings.Join(e.Issues, "; ")
}
