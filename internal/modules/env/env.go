package env

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Parse reads T from the environment using its `env` struct tags.
func Parse[T any]() (T, error) {
	var target T
	if err := env.Parse(&target); err != nil {
		return target, fmt.Errorf("parse env: %w", err)
	}
	return target, nil
}
