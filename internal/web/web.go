// Package web embeds the HTML templates of the UI server.
package web

import (
	"embed"
	"html/template"

	"github.com/ursmart/webapp/internal/pkg/helpers"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Templates parses the embedded pages with the shared helper funcs.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"truncate": helpers.Truncate,
	}).ParseFS(templateFS, "templates/*.tmpl")
}
