// Package migrations holds the schema of the resource cache database.
// Files are applied in name order; NNN_name.up.sql creates and
// NNN_name.down.sql reverts.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
