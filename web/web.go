// Package web embeds the default map surface: a Leaflet page that speaks
// the bridge protocol over /ws/surface. Any other renderer speaking the
// same envelopes can replace it.
package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var staticFS embed.FS

// Handler serves the embedded map page.
func Handler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// embed contents are fixed at build time
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
