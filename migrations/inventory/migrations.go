// Package inventory embeds the goose migrations for the inventory tables.
// The same files run on PostgreSQL and SQLite.
package inventory

import "embed"

//go:embed *.sql
var FS embed.FS
