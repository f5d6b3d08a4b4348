package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config controls classification and naming. Every field has a compiled-in
// default; a config file only overrides what it names. The tool reads no
// environment variables.
type Config struct {
	Naming struct {
		Prefix        string `yaml:"prefix"`
		MaxNameLength int    `yaml:"max_name_length"`
	} `yaml:"naming"`
	Scan struct {
		Extensions []string `yaml:"extensions"`
		IgnoreDirs []string `yaml:"ignore_dirs"`
	} `yaml:"scan"`
	Classify struct {
		// Calls whose string arguments stay inline (diagnostic text).
		IgnoreCalls []string `yaml:"ignore_calls"`
		// Constructors whose string arguments stay inline (error messages).
		ErrorConstructors []string `yaml:"error_constructors"`
	} `yaml:"classify"`
}

// Default returns the configuration used when no config file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.Naming.Prefix = "k"
	cfg.Naming.MaxNameLength = 40
	cfg.Scan.Extensions = []string{".js", ".mjs", ".cjs"}
	cfg.Scan.IgnoreDirs = []string{".git", "node_modules", "vendor", "testdata"}
	cfg.Classify.IgnoreCalls = []string{
		"console.log",
		"console.warn",
		"console.error",
		"console.info",
		"console.debug",
	}
	cfg.Classify.ErrorConstructors = []string{"Error", "TypeError", "RangeError"}
	return cfg
}

// Load reads a YAML config file on top of the defaults. An empty path yields
// the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(file, cfg); err != nil {
		return nil, err
	}

	if cfg.Naming.Prefix == "" {
		cfg.Naming.Prefix = "k"
	}
	if cfg.Naming.MaxNameLength <= 0 {
		cfg.Naming.MaxNameLength = 40
	}
	if len(cfg.Scan.Extensions) == 0 {
		cfg.Scan.Extensions = Default().Scan.Extensions
	}
	return cfg, nil
}
