// Package migrations embeds the SQL schema migrations applied by goose to
// the PostgreSQL and SQLite account stores.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
