// Package web holds the embedded HTML templates and static assets.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"strings"

	"github.com/stemsi/attendance-dashboard/internal/analytics"
	"github.com/stemsi/attendance-dashboard/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Funcs are the helpers available to every template.
var Funcs = template.FuncMap{
	"join":  strings.Join,
	"lower": func(s model.AttendanceStatus) string { return strings.ToLower(string(s)) },
	"tag":   analytics.WeekTag,
	"count": func(counts map[model.AttendanceStatus]int, s model.AttendanceStatus) int { return counts[s] },
	"statuses": func() []model.AttendanceStatus {
		return model.AllStatuses
	},
}

// Templates parses every page template.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(Funcs).ParseFS(templateFS, "templates/*.html")
}

// Static returns the stylesheet directory rooted at its contents.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
