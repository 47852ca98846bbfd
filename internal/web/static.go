package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var embeddedStatic embed.FS

// StaticFS exposes the stylesheet and the form component script served
// under /static/.
func StaticFS() fs.FS {
	sub, err := fs.Sub(embeddedStatic, "static")
	if err != nil {
		return embeddedStatic
	}
	return sub
}

// StaticHandler serves StaticFS with prefix stripped from request paths.
func StaticHandler(prefix string) http.Handler {
	return http.StripPrefix(prefix, http.FileServerFS(StaticFS()))
}
