// Package migrations embeds the goose migrations for the unique_logins table.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
