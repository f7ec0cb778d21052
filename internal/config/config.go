package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the uttrekk.yaml server configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Listen      string `yaml:"listen"`
	Metrics     bool   `yaml:"metrics"`
	CORS        bool   `yaml:"cors"`
	MaxUploadMB int64  `yaml:"max_upload_mb"`
}

// Load reads an uttrekk.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Listen:      ":8090",
			Metrics:     true,
			CORS:        true,
			MaxUploadMB: 20,
		},
	}
}
