// SPDX-License-Identifier: EPL-2.0

package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// EnvFile is read by LoadConfig when present.
var EnvFile = ".env"

const (
	EnvLogLevel  = "AUDREACT_LOG_LEVEL"
	EnvFrameRate = "AUDREACT_FRAME_RATE"
)

// ApplyEnv overrides settings from the process environment and from
// envFile. The process environment takes precedence. A missing envFile is
// not an error.
func (c *Config) ApplyEnv(envFile string) error {
	vars := map[string]string{}
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			m, err := godotenv.Read(envFile)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", envFile, err)
			}
			vars = m
		}
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := vars[key]
		return v, ok
	}

	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Logging.Level = v
	}

	if v, ok := lookup(EnvFrameRate); ok && v != "" {
		fps, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvFrameRate, v, err)
		}
		c.Render.FrameRate = fps
	}

	return nil
}
