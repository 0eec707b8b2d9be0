// Package assets embeds the default static board files, the auxiliary core
// bundle and the output templates.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed static templates
var content embed.FS

// Static returns the embedded static assets rooted at the static directory.
func Static() fs.FS {
	return mustSub("static")
}

// Templates returns the embedded templates rooted at the templates directory.
func Templates() fs.FS {
	return mustSub("templates")
}

func mustSub(dir string) fs.FS {
	sub, err := fs.Sub(content, dir)
	if err != nil {
		panic(err)
	}

	return sub
}
