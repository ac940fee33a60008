// Package migrations embeds the SQL schema migrations applied by the
// SQLite store on open.
package migrations

import "embed"

// FS holds the migration files, applied in lexical order.
//
//go:embed *.sql
var FS embed.FS
