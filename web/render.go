package web

import (
	"bytes"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/yuin/goldmark"

	ds "github.com/oaiiae/huma-contacts/datastores"
)

// PageData contains the sidebar fields used across all page templates.
type PageData struct {
	Title    string
	Q        string
	Contacts []*ds.Contact
	ActiveID string
}

// DetailPageData is the template data for the contact detail page.
type DetailPageData struct {
	PageData
	Contact *ds.Contact
	Notes   template.HTML
}

// EditPageData is the template data for the contact edit page.
type EditPageData struct {
	PageData
	Contact *ds.Contact
}

// ErrorPageData is the template data for the error page.
type ErrorPageData struct {
	PageData
	StatusCode int
	Message    string
}

// Renderer manages template parsing and rendering.
type Renderer struct {
	templates map[string]*template.Template
	title     string
	logger    *slog.Logger
}

// NewRenderer creates a Renderer by parsing templates from the given FS.
func NewRenderer(templateFS fs.FS, title string, logger *slog.Logger) *Renderer {
	funcMap := template.FuncMap{
		"fullName": fullName,
		"twitterURL": func(handle string) string {
			return "https://twitter.com/" + strings.TrimPrefix(handle, "@")
		},
	}

	layoutTmpl := template.Must(template.New("layout").Funcs(funcMap).ParseFS(templateFS, "layout.html"))

	pages := map[string]string{
		"index":  "index.html",
		"detail": "detail.html",
		"edit":   "edit.html",
		"error":  "error.html",
	}

	templates := make(map[string]*template.Template, len(pages))
	for name, file := range pages {
		t := template.Must(layoutTmpl.Clone())
		template.Must(t.ParseFS(templateFS, file))
		templates[name] = t
	}

	return &Renderer{templates: templates, title: title, logger: logger}
}

// renderPage renders a named page template with the given data and status code.
func (r *Renderer) renderPage(w http.ResponseWriter, status int, name string, data any) {
	t, ok := r.templates[name]
	if !ok {
		r.logger.Error("template not found", "name", name)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	err := t.ExecuteTemplate(&buf, "layout", data)
	if err != nil {
		r.logger.Error("template execution failed", "name", name, "err", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// renderMarkdown converts markdown text to HTML using goldmark.
func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	err := goldmark.Convert([]byte(md), &buf)
	if err != nil {
		return template.HTML(template.HTMLEscapeString(md)) //nolint: gosec // escaped
	}
	return template.HTML(buf.String()) //nolint: gosec // goldmark drops raw HTML by default
}

// fullName joins the first and last names, it is empty when both are.
func fullName(c *ds.Contact) string {
	return strings.TrimSpace(c.First + " " + c.Last)
}
