// Package web serves the HTML user interface: a sidebar listing the contacts
// with a search form, and a detail pane to show, edit, favorite or delete one.
package web

import (
	"embed"
	"io/fs"
	"log/slog"
	"net/http"

	ds "github.com/oaiiae/huma-contacts/datastores"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// New returns the handler of the user interface backed by store.
func New(title string, store ds.ContactsStore, logger *slog.Logger) http.Handler {
	templateSub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		panic(err)
	}
	staticSub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}

	h := &Handlers{
		store:    store,
		logger:   logger,
		renderer: NewRenderer(templateSub, title, logger),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.HandleIndex)
	mux.HandleFunc("POST /contacts", h.HandleCreate)
	mux.HandleFunc("GET /contacts/{id}", h.HandleDetail)
	mux.HandleFunc("POST /contacts/{id}", h.HandleFavorite)
	mux.HandleFunc("GET /contacts/{id}/edit", h.HandleEdit)
	mux.HandleFunc("POST /contacts/{id}/edit", h.HandleUpdate)
	mux.HandleFunc("POST /contacts/{id}/destroy", h.HandleDestroy)
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticSub)))
	mux.HandleFunc("/", h.HandleNotFound)

	return securityHeaders(mux)
}

// securityHeaders adds security-related HTTP headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'self'; img-src *; script-src 'self'; style-src 'self'")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}
