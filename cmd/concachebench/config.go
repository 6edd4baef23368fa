package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/semihalev/zlog/v2"
)

// config holds the benchmark driver's tunables. It is the only place in
// this repository that reads a file or an environment — the core package
// itself consumes neither (spec.md §6).
type config struct {
	Buckets     uint64
	Threads     int
	Iterations  int
	Keyspace    uint64
	LogLevel    string
	MetricsAddr string
}

func defaultConfig() *config {
	return &config{
		Buckets:     8,
		Threads:     5,
		Iterations:  100000,
		Keyspace:    128,
		LogLevel:    "info",
		MetricsAddr: "",
	}
}

// loadConfig overlays a TOML file onto the defaults, the way
// semihalev-sdns/config/config.go's Load decodes its TOML file over a
// struct of defaults.
func loadConfig(path string) (*config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			zlog.Warn("config file not found, using defaults", "path", path)
			return cfg, nil
		}
		return nil, err
	}

	zlog.Info("loading config file", "path", path)
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	return cfg, nil
}
