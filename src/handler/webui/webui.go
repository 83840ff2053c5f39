// Package webui embeds the static assets of the browser player.
package webui

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
)

//go:embed index.html app.js style.css
var files embed.FS

// Files returns the UI assets. Debug builds read from the working tree so
// edits show up without recompiling.
func Files(build string) fs.FS {
	if build == "debug" {
		return os.DirFS("src/handler/webui")
	}
	if build == "release" || build == "%BUILD%" {
		return files
	}
	panic(fmt.Errorf("invalid build: %q", build))
}
