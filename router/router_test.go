package router

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
)

type ping struct{}

func (ping) RegisterPing(api huma.API) {
	huma.Get(api, "/ping", func(context.Context, *struct{}) (*struct{}, error) { return nil, nil })
}

func TestNew(t *testing.T) {
	var calls []string
	handler := New("test", "0.0.0",
		func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusServiceUnavailable) },
		func(w http.ResponseWriter, _ *http.Request) { fmt.Fprintln(w, "up 1") },
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { fmt.Fprint(w, "ui") }),
		OptUseMiddleware(func(ctx huma.Context, next func(huma.Context)) {
			calls = append(calls, ctx.Operation().Path)
			next(ctx)
		}),
		OptGroup("/api", OptAutoRegister(ping{})),
	)

	for _, tt := range []struct {
		method, path string
		status       int
		body         string
	}{
		{http.MethodGet, "/liveness", http.StatusOK, ""},
		{http.MethodGet, "/readiness", http.StatusServiceUnavailable, ""},
		{http.MethodGet, "/metrics", http.StatusOK, "up 1\n"},
		{http.MethodGet, "/", http.StatusOK, "ui"},
		{http.MethodGet, "/contacts/abc", http.StatusOK, "ui"},
		{http.MethodGet, "/api/ping", http.StatusNoContent, ""},
	} {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.status, rec.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, rec.Body.String())
			}
		})
	}
	assert.Equal(t, []string{"/api/ping"}, calls)
}

func TestNew_WithoutUI(t *testing.T) {
	handler := New("test", "0.0.0",
		func(http.ResponseWriter, *http.Request) {},
		func(http.ResponseWriter, *http.Request) {},
		nil,
	)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/contacts", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
