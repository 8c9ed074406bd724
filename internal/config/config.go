package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds batch processing defaults. Command-line flags override
// anything set here.
type Config struct {
	InputDir   string   `yaml:"input_dir"`
	OutputDir  string   `yaml:"output_dir"`
	Extensions []string `yaml:"extensions"`
	Workers    int      `yaml:"workers"`

	S3Bucket string `yaml:"s3_bucket"`
	S3Region string `yaml:"s3_region"`
	S3Prefix string `yaml:"s3_prefix"`
}

// Default returns the built-in batch configuration.
func Default() *Config {
	return &Config{
		InputDir:  "input_files",
		OutputDir: "output_files",
		Workers:   3,
		S3Region:  "us-east-1",
	}
}

// Load reads a YAML config file and overlays it on the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Workers < 1 {
		return nil, fmt.Errorf("config %s: workers must be at least 1", path)
	}
	return cfg, nil
}
