package main

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// Config drives a stress run. Values come from an optional TOML file;
// command-line flags override whatever the file set.
type Config struct {
	Duration  duration `toml:"duration"`
	Entities  int      `toml:"entities"`
	Systems   int      `toml:"systems"`
	Profile   string   `toml:"profile"` // "", "cpu", "mem"
	GCMetrics bool     `toml:"gc_metrics"`
}

// duration lets TOML carry values like "30s".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

func defaultConfig() Config {
	return Config{
		Duration: duration{10 * time.Second},
		Entities: 10000,
		Systems:  8,
	}
}

func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}
	if cfg.Entities <= 0 {
		return cfg, fmt.Errorf("config %s: entities must be positive", path)
	}
	if cfg.Systems <= 0 {
		return cfg, fmt.Errorf("config %s: systems must be positive", path)
	}
	return cfg, nil
}
