// Package migrations embeds the goose SQL migrations that create the demo
// schema. They are applied idempotently at startup by the repository manager.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
