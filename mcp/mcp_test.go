package mcp

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ds "github.com/oaiiae/huma-contacts/datastores"
)

// makeRequest creates a CallToolRequest with the given arguments.
func makeRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

func setupHandlers(t *testing.T, seed ...ds.SeedContact) *Handlers {
	t.Helper()
	store := ds.NewContactsInmem()
	require.NoError(t, ds.Seed(context.Background(), store, seed...))
	return NewHandlers(store, slog.New(slog.DiscardHandler))
}

func parseOutput[T any](t *testing.T, result *mcp.CallToolResult) T {
	t.Helper()
	require.NotNil(t, result)
	require.False(t, result.IsError, "unexpected error result: %+v", result.Content)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])

	var out T
	require.NoError(t, json.Unmarshal([]byte(text.Text), &out))
	return out
}

func assertErrorCode(t *testing.T, result *mcp.CallToolResult, expectedCode string) {
	t.Helper()
	require.NotNil(t, result)
	require.True(t, result.IsError)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)

	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(text.Text), &payload))
	assert.Equal(t, expectedCode, payload.Error.Code)
}

func TestToolNames(t *testing.T) {
	names := ToolNames()
	sort.Strings(names)
	assert.Equal(t, []string{
		"contacts_create", "contacts_delete", "contacts_get", "contacts_list", "contacts_update",
	}, names)
}

func TestNewServer(t *testing.T) {
	s := NewServer(ds.NewContactsInmem(), slog.New(slog.DiscardHandler), "test")
	assert.NotNil(t, s)
}

func TestHandleList(t *testing.T) {
	h := setupHandlers(t,
		ds.SeedContact{First: "Ada", Last: "Lovelace"},
		ds.SeedContact{First: "Grace", Last: "Hopper"},
	)
	ctx := context.Background()

	result, err := h.HandleList(ctx, makeRequest(nil))
	require.NoError(t, err)
	out := parseOutput[ListOutput](t, result)
	require.Len(t, out.Contacts, 2)
	assert.Equal(t, "Ada", out.Contacts[0].First)

	result, err = h.HandleList(ctx, makeRequest(map[string]any{"query": "LACE"}))
	require.NoError(t, err)
	out = parseOutput[ListOutput](t, result)
	require.Len(t, out.Contacts, 1)
	assert.Equal(t, "Lovelace", out.Contacts[0].Last)
	assert.Equal(t, "LACE", out.Query)

	result, err = h.HandleList(ctx, makeRequest(map[string]any{"query": 42}))
	require.NoError(t, err)
	assertErrorCode(t, result, codeInvalidRequest)
}

func TestLifecycle(t *testing.T) {
	h := setupHandlers(t)
	ctx := context.Background()

	result, err := h.HandleCreate(ctx, makeRequest(nil))
	require.NoError(t, err)
	created := parseOutput[Contact](t, result)
	require.NotEmpty(t, created.ID)

	result, err = h.HandleUpdate(ctx, makeRequest(map[string]any{"id": created.ID, "first": "Ada"}))
	require.NoError(t, err)
	updated := parseOutput[Contact](t, result)
	assert.Equal(t, "Ada", updated.First)
	assert.False(t, updated.Favorite)

	result, err = h.HandleUpdate(ctx, makeRequest(map[string]any{"id": created.ID, "favorite": true}))
	require.NoError(t, err)
	updated = parseOutput[Contact](t, result)
	assert.Equal(t, "Ada", updated.First)
	assert.True(t, updated.Favorite)

	result, err = h.HandleGet(ctx, makeRequest(map[string]any{"id": created.ID}))
	require.NoError(t, err)
	assert.Equal(t, updated, parseOutput[Contact](t, result))

	result, err = h.HandleDelete(ctx, makeRequest(map[string]any{"id": created.ID}))
	require.NoError(t, err)
	assert.True(t, parseOutput[DeleteOutput](t, result).Deleted)

	result, err = h.HandleGet(ctx, makeRequest(map[string]any{"id": created.ID}))
	require.NoError(t, err)
	assertErrorCode(t, result, codeNotFound)

	result, err = h.HandleDelete(ctx, makeRequest(map[string]any{"id": created.ID}))
	require.NoError(t, err)
	assert.False(t, parseOutput[DeleteOutput](t, result).Deleted)
}

func TestNotFound(t *testing.T) {
	h := setupHandlers(t)
	ctx := context.Background()

	for _, id := range []string{"AZkS4e8zc1qcXoZtBfPo9g", "malformed"} {
		result, err := h.HandleGet(ctx, makeRequest(map[string]any{"id": id}))
		require.NoError(t, err)
		assertErrorCode(t, result, codeNotFound)

		result, err = h.HandleUpdate(ctx, makeRequest(map[string]any{"id": id, "notes": "x"}))
		require.NoError(t, err)
		assertErrorCode(t, result, codeNotFound)

		result, err = h.HandleDelete(ctx, makeRequest(map[string]any{"id": id}))
		require.NoError(t, err)
		assert.False(t, parseOutput[DeleteOutput](t, result).Deleted)
	}
}
