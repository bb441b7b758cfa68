// Package migrations embeds the PostgreSQL schema migrations applied by goose.
package migrations

import "embed"

// FS holds the versioned SQL migrations.
//
//go:embed *.sql
var FS embed.FS
