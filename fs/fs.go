// Package appfs embeds the static assets shipped with the binaries.
package appfs

import "embed"

// all: keeps the `_base` layouts, which the default rule would skip.
//
//go:embed migrations all:templates
var FS embed.FS
