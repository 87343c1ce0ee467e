package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// parseEnv populates cfg from environment variables using the caarlos0/env
// library. The mapping comes from the `env` and `envPrefix` tags on
// [StructuredConfig]: SYNC_* feeds the engine knobs, ADAPTER_* the client
// transport, STORAGE_DB_* the database DSN, and so on.
//
// Returns a wrapped error if env.Parse fails, for example when a value
// cannot be converted to the target field type.
func parseEnv(cfg any) error {
	err := env.Parse(cfg)
	if err != nil {
		return fmt.Errorf("error getting env configs: %w", err)
	}

	return nil
}
