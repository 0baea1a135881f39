// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// envPrefix namespaces every environment variable (LVSOLVE_*).
const envPrefix = "LVSOLVE"

// Config holds CLI defaults read from the environment.
type Config struct {
	Algorithm string  `envconfig:"ALGORITHM" default:"lu"`
	Threshold float64 `envconfig:"THRESHOLD" default:"0"`
	LogLevel  string  `envconfig:"LOG_LEVEL" default:"info"`
	NoColor   bool    `envconfig:"NO_COLOR" default:"false"`
}

// loadConfig loads configuration from environment variables.
func loadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Threshold < 0 {
		return nil, fmt.Errorf("failed to load config: %s_THRESHOLD must be >= 0, got %v", envPrefix, cfg.Threshold)
	}

	return &cfg, nil
}
