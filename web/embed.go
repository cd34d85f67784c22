// Package web holds the single-page client served by the API server.
package web

import (
	"embed"
	"io/fs"
)

//go:embed public
var public embed.FS

// Static returns the client files rooted at public/.
func Static() (fs.FS, error) {
	return fs.Sub(public, "public")
}
