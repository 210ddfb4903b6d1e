package rendering

import (
	"bytes"
	"embed"
	"html/template"
	"strings"
	"sync"

	"github.com/jonathan/resume-builder/internal/types"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"join":         func(list []string, sep string) string { return strings.Join(list, sep) },
	"joinNonEmpty": joinNonEmpty,
	"wrap":         wrap,
}

// Document is a rendered resume.
type Document struct {
	// Template is the layout actually used, which differs from the requested one when
	// the request named an unknown template.
	Template types.TemplateType
	Title    string
	HTML     string
}

var (
	parsed    map[types.TemplateType]*template.Template
	parseErr  error
	parseOnce sync.Once
)

func loadTemplates() (map[types.TemplateType]*template.Template, error) {
	parseOnce.Do(func() {
		parsed = make(map[types.TemplateType]*template.Template, len(variants))
		for name, v := range variants {
			t, err := template.New(v.file).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+v.file)
			if err != nil {
				parseErr = &TemplateError{Template: name, Message: "failed to parse template", Cause: err}
				return
			}
			parsed[name] = t
		}
	})
	return parsed, parseErr
}

// Render produces the HTML document for content in the requested template. Unknown
// template identifiers fall back to the default layout. The input is not modified.
func Render(content types.ResumeContent, tmpl types.TemplateType) (*Document, error) {
	templates, err := loadTemplates()
	if err != nil {
		return nil, err
	}

	used := tmpl.OrDefault()
	data := buildView(content, variants[used])

	var buf bytes.Buffer
	if err := templates[used].ExecuteTemplate(&buf, "layout", data); err != nil {
		return nil, &TemplateError{Template: used, Message: "failed to execute template", Cause: err}
	}

	return &Document{
		Template: used,
		Title:    data.Title,
		HTML:     buf.String(),
	}, nil
}
