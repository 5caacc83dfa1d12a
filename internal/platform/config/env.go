// Package config holds the shared helpers for loading settings from the
// process environment and for failing fast in command entry points.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ParseEnv fills target from environment variables declared through its
// env struct tags. Flag parsing runs after this so flags win.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
