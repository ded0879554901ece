package render

import (
	"embed"
	"html/template"
	"strings"
	"time"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

var templateFuncs = template.FuncMap{
	"isoDate":     func(t time.Time) string { return t.Format("2006-01-02") },
	"displayDate": func(t time.Time) string { return t.Format("Jan 2, 2006") },
	"join":        strings.Join,
}

// mustTemplates parses the embedded page templates. A parse failure is a
// programmer error.
func mustTemplates() *template.Template {
	return template.Must(template.New("folio").Funcs(templateFuncs).ParseFS(embeddedTemplates, "templates/*.tmpl"))
}
