// Package embedded provides embedded static assets for the application.
package embedded

import (
	"embed"
)

// Files contains all files embedded in the Go binary:
//   - templates/ - html/template pages, parsed by internal/web
//   - static/    - stylesheet and page scripts, served under /static/
//
//go:embed templates static
var Files embed.FS
