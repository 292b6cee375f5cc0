// Package migrations embeds the numbered schema scripts of the dimension
// cache. Files are named NNN_name.up.sql and NNN_name.down.sql.
package migrations

import "embed"

// FS holds the migration scripts.
//
//go:embed *.sql
var FS embed.FS
