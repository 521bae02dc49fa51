// Package web embeds the browser front-end served alongside the API.
package web

import (
	"embed"
	"io/fs"
)

//go:embed index.html app.js styles.css
var assets embed.FS

// Assets returns the embedded front-end files rooted at the site root.
func Assets() fs.FS {
	return assets
}
