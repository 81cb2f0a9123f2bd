// Package migrations embeds the PostgreSQL schema migrations so binaries and
// integration tests can apply them without a checkout.
package migrations

import "embed"

// FS holds the NNNNNN_name.up.sql / .down.sql pairs
//
//go:embed *.sql
var FS embed.FS
