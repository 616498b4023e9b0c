// Package web holds the server-rendered register pages.
package web

import (
	"embed"
	"html/template"
	"strconv"
)

//go:embed templates/*.html
var templateFS embed.FS

// Template names.
const (
	IndexPage         = "index.html"
	ConfirmDeletePage = "confirm_delete.html"
)

// Templates parses the embedded page templates.
func Templates() (*template.Template, error) {
	return template.New("register").Funcs(template.FuncMap{
		"formatID": func(id int64) string {
			if id == 0 {
				return ""
			}
			return strconv.FormatInt(id, 10)
		},
	}).ParseFS(templateFS, "templates/*.html")
}
