// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

// Package config loads the configuration of the command line and of the
// query service: defaults, then an optional YAML file, then environment
// variables.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/dalzilio/dvn"
)

// Environment variables read by FromEnv and Load.
const (
	EnvAddr      = "DVN_ADDR"
	EnvLogLevel  = "DVN_LOG_LEVEL"
	EnvLogFormat = "DVN_LOG_FORMAT"
	EnvMaxFactor = "DVN_MAX_FACTOR"
	EnvWorkers   = "DVN_WORKERS"
)

// Config captures the settings of the engine and of the HTTP service.
type Config struct {
	Addr             string `yaml:"addr"`
	LogLevel         string `yaml:"log_level"`
	LogFormat        string `yaml:"log_format"`
	MaxFactorSize    int    `yaml:"max_factor_size"`
	Workers          int    `yaml:"workers"`
	InteractionOrder bool   `yaml:"interaction_order"`
	MaxRequestBytes  int64  `yaml:"max_request_bytes"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Addr:            ":8080",
		LogLevel:        "info",
		LogFormat:       "text",
		MaxFactorSize:   1 << 24,
		Workers:         4,
		MaxRequestBytes: 4 << 20,
	}
}

// FromEnv builds a Config from the defaults and the environment.
func FromEnv() (Config, error) {
	cfg := Default()
	err := cfg.ApplyEnv(os.Getenv)
	return cfg, err
}

// Load reads the configuration file at path, if path is not empty, on top of
// the defaults; environment variables take precedence over the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ApplyEnv overrides the fields of c with the non-empty variables returned by
// getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv(EnvAddr); v != "" {
		c.Addr = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := getenv(EnvLogFormat); v != "" {
		c.LogFormat = v
	}
	for _, e := range []struct {
		name string
		dst  *int
	}{
		{EnvMaxFactor, &c.MaxFactorSize},
		{EnvWorkers, &c.Workers},
	} {
		v := getenv(e.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return fmt.Errorf("%s: invalid value %q", e.name, v)
		}
		*e.dst = n
	}
	return nil
}

// Options returns the factor set options matching c.
func (c Config) Options() []dvn.Option {
	return []dvn.Option{
		dvn.MaxFactorSize(c.MaxFactorSize),
		dvn.InteractionOrder(c.InteractionOrder),
	}
}
