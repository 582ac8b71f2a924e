package main

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// fileConfig holds the settings read from ~/.molymemo.yaml.
type fileConfig struct {
	BaseURL string `yaml:"base_url"`
	Token   string `yaml:"token"`
	Debug   bool   `yaml:"debug"`
}

// configPath resolves the config file location.
func configPath(override string) string {
	if override != "" {
		return override
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".molymemo.yaml"
	}
	return filepath.Join(home, ".molymemo.yaml")
}

// loadConfig loads the config file. A missing file yields an empty config
// so flags alone are enough to run.
func loadConfig(override string) (*fileConfig, error) {
	data, err := os.ReadFile(configPath(override))
	if os.IsNotExist(err) {
		return &fileConfig{}, nil
	}
	if err != nil {
		return nil, err
	}

	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
