package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ds "github.com/oaiiae/huma-contacts/datastores"
)

func setupContacts(t *testing.T, seed ...ds.SeedContact) (humatest.TestAPI, *[]error) {
	t.Helper()
	store := ds.NewContactsInmem()
	require.NoError(t, ds.Seed(context.Background(), store, seed...))

	var errs []error
	_, api := humatest.New(t)
	huma.AutoRegister(huma.NewGroup(api, "/contacts"), &Contacts{
		Store:        store,
		ErrorHandler: func(_ context.Context, err error) { errs = append(errs, err) },
	})
	return api, &errs
}

func decode[T any](t *testing.T, body string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(body), &v))
	return v
}

type listBody struct {
	Contacts []ContactModel `json:"contacts"`
	Q        string         `json:"q"`
}

func TestContacts_List(t *testing.T) {
	api, _ := setupContacts(t,
		ds.SeedContact{First: "Ada", Last: "Lovelace"},
		ds.SeedContact{First: "Grace", Last: "Hopper", Favorite: true},
	)

	resp := api.Get("/contacts/")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	body := decode[listBody](t, resp.Body.String())
	require.Len(t, body.Contacts, 2)
	assert.Equal(t, "Ada", body.Contacts[0].First)
	assert.Equal(t, "Grace", body.Contacts[1].First)
	assert.True(t, body.Contacts[1].Favorite)
	assert.Empty(t, body.Q)
}

func TestContacts_ListQuery(t *testing.T) {
	api, _ := setupContacts(t,
		ds.SeedContact{First: "Ada", Last: "Lovelace"},
		ds.SeedContact{First: "Grace", Last: "Hopper"},
	)

	resp := api.Get("/contacts/?q=hop")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	body := decode[listBody](t, resp.Body.String())
	require.Len(t, body.Contacts, 1)
	assert.Equal(t, "Hopper", body.Contacts[0].Last)
	assert.Equal(t, "hop", body.Q)

	resp = api.Get("/contacts/?q=zzz-no-match")
	require.Equal(t, http.StatusOK, resp.Code)
	body = decode[listBody](t, resp.Body.String())
	assert.NotNil(t, body.Contacts)
	assert.Empty(t, body.Contacts)
}

func TestContacts_CreateGetPatchDelete(t *testing.T) {
	api, errs := setupContacts(t)

	resp := api.Post("/contacts/")
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	created := decode[ContactModel](t, resp.Body.String())
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "/contacts/"+created.ID, resp.Header().Get("Location"))
	assert.Empty(t, created.First)
	assert.False(t, created.Favorite)

	resp = api.Get("/contacts/" + created.ID)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, created.ID, decode[ContactModel](t, resp.Body.String()).ID)

	resp = api.Patch("/contacts/"+created.ID, map[string]any{"first": "Ada"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	patched := decode[ContactModel](t, resp.Body.String())
	assert.Equal(t, "Ada", patched.First)
	assert.False(t, patched.Favorite)

	resp = api.Patch("/contacts/"+created.ID, map[string]any{"favorite": true})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	patched = decode[ContactModel](t, resp.Body.String())
	assert.Equal(t, "Ada", patched.First)
	assert.True(t, patched.Favorite)

	resp = api.Delete("/contacts/" + created.ID)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.JSONEq(t, `{"deleted":true}`, deleteBody(t, resp.Body.String()))

	resp = api.Get("/contacts/" + created.ID)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = api.Delete("/contacts/" + created.ID)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.JSONEq(t, `{"deleted":false}`, deleteBody(t, resp.Body.String()))

	require.Len(t, *errs, 1)
	var statusErr huma.StatusError
	require.ErrorAs(t, (*errs)[0], &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.GetStatus())
}

// deleteBody drops the $schema link huma adds to response bodies.
func deleteBody(t *testing.T, body string) string {
	t.Helper()
	m := decode[map[string]any](t, body)
	delete(m, "$schema")
	b, err := json.Marshal(m)
	require.NoError(t, err)
	return string(b)
}

func TestContacts_NotFound(t *testing.T) {
	api, errs := setupContacts(t)
	absent := "AZkS4e8zc1qcXoZtBfPo9g"

	for _, resp := range []*httptest.ResponseRecorder{
		api.Get("/contacts/" + absent),
		api.Get("/contacts/malformed"),
		api.Patch("/contacts/"+absent, map[string]any{"first": "Ada"}),
		api.Patch("/contacts/malformed", map[string]any{"first": "Ada"}),
	} {
		assert.Equal(t, http.StatusNotFound, resp.Code, resp.Body.String())
	}
	assert.Len(t, *errs, 4)
}

func TestContacts_DeleteMalformed(t *testing.T) {
	api, errs := setupContacts(t)

	resp := api.Delete("/contacts/malformed")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.True(t, strings.Contains(resp.Body.String(), `"deleted":false`))
	assert.Empty(t, *errs)
}
