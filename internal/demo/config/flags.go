package config

import (
	"flag"
	"os"

	"github.com/dpetrovs/userstore/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   PostgreSQL DSN
//	-m int      pool capacity
//	-s int      generator seed
//
// os.Args is filtered to only the flags handled here via flagx.FilterArgs,
// so flags owned by other components are ignored rather than rejected.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-m", "-s"})

	fs := flag.NewFlagSet("demo", flag.ContinueOnError)

	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.IntVar(&config.PoolMaxConns, "m", config.PoolMaxConns, "max pool connections")
	fs.Int64Var(&config.Seed, "s", config.Seed, "demo data generator seed")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
