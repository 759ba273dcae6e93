// Package web embeds the catalogue's page templates and stylesheet into the
// binary, so the museum computer needs nothing beside the executable and
// the database file.
package web

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed static templates
var assets embed.FS

// sub returns the embedded directory dir. Both directories are compiled in,
// so a failure means the binary was built from a broken tree.
func sub(dir string) fs.FS {
	fsys, err := fs.Sub(assets, dir)
	if err != nil {
		panic(fmt.Sprintf("hembygdsmuseum: embedded %s directory missing: %v", dir, err))
	}
	return fsys
}

// StaticFS returns the stylesheet and other files served under /static/.
func StaticFS() fs.FS { return sub("static") }

// TemplatesFS returns the layout and page templates.
func TemplatesFS() fs.FS { return sub("templates") }
