// Package migrations embeds the emulator's SQLite schema migrations.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
