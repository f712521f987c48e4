// Package salesdesk_backend exposes build-time embedded assets to the
// composition root.
package salesdesk_backend

import "embed"

// Migrations holds the embedded SQL migration files.
//
//go:embed migrations/*.sql
var Migrations embed.FS
