package config

import (
	"os"
	"strconv"
)

// parseEnv overlays Config fields from environment variables. Unset or
// malformed values leave the current value in place.
//
//	DATABASE_DSN    string  PostgreSQL DSN
//	POOL_MAX_CONNS  int     pool capacity
//	DEMO_SEED       int64   generator seed
func parseEnv(config *Config) {
	if v, ok := os.LookupEnv("DATABASE_DSN"); ok {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv("POOL_MAX_CONNS"); ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.PoolMaxConns = n
		}
	}
	if v, ok := os.LookupEnv("DEMO_SEED"); ok {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.Seed = n
		}
	}
}
