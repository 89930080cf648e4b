// Package preset provides embedded wall layouts for the demo.
package preset

import "embed"

// dataFS embeds all JSON files from this directory at build time.
//
//go:embed *.json
var dataFS embed.FS
