// Package migrations embeds the SQL schema for the libsql sample store.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
