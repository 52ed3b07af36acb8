package view

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

const listTemplate = "calls.html"

// Templates parses the embedded screen templates.
func Templates() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/*.html")
}
