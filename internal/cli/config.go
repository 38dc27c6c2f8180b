// Copyright 2021 The wasihttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cli

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the optional YAML configuration file of the command.
//
//	connect_timeout: 5s
//	request_id: true
//	headers:
//	  Accept: application/json
//	log:
//	  level: debug
//	  format: json
type Config struct {
	// ConnectTimeout is the client-wide connect timeout.
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	// RequestID adds an X-Request-ID header to every request.
	RequestID bool `yaml:"request_id"`
	// Headers are sent with every request, before any -H flags.
	Headers map[string]string `yaml:"headers"`
	// Log overrides the logging environment variables.
	Log LogConfig `yaml:"log"`
}

// LogConfig configures request logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// LoadConfig reads and parses the YAML configuration file at path.
func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := &Config{}
	if err = yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.ConnectTimeout < 0 {
		return nil, fmt.Errorf("parsing config %s: negative connect_timeout", path)
	}
	return cfg, nil
}
