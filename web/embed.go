// Package web holds the embedded page templates and static assets.
package web

import (
	"embed"
	"io/fs"
)

//go:embed templates static
var assets embed.FS

// Templates returns the page template tree rooted at the template names.
func Templates() fs.FS {
	sub, err := fs.Sub(assets, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

// Static returns the static asset tree (stylesheets, scripts, images).
func Static() fs.FS {
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
