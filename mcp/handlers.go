package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	ds "github.com/oaiiae/huma-contacts/datastores"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	store  ds.ContactsStore
	logger *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(store ds.ContactsStore, logger *slog.Logger) *Handlers {
	return &Handlers{store: store, logger: logger}
}

// ListRequest represents the arguments for contacts_list.
type ListRequest struct {
	Query string `json:"query,omitempty"`
}

// IDRequest represents the arguments of the tools addressing a single contact.
type IDRequest struct {
	ID string `json:"id"`
}

// UpdateRequest represents the arguments for contacts_update.
type UpdateRequest struct {
	ID       string  `json:"id"`
	First    *string `json:"first,omitempty"`
	Last     *string `json:"last,omitempty"`
	Avatar   *string `json:"avatar,omitempty"`
	Twitter  *string `json:"twitter,omitempty"`
	Notes    *string `json:"notes,omitempty"`
	Favorite *bool   `json:"favorite,omitempty"`
}

// Contact is the JSON form of a contact in tool results.
type Contact struct {
	ID        string    `json:"id"`
	First     string    `json:"first"`
	Last      string    `json:"last"`
	Avatar    string    `json:"avatar"`
	Twitter   string    `json:"twitter"`
	Notes     string    `json:"notes"`
	Favorite  bool      `json:"favorite"`
	CreatedAt time.Time `json:"created_at"`
}

func newContact(c *ds.Contact) Contact {
	return Contact{
		ID:        c.ID.String(),
		First:     c.First,
		Last:      c.Last,
		Avatar:    c.Avatar,
		Twitter:   c.Twitter,
		Notes:     c.Notes,
		Favorite:  c.Favorite,
		CreatedAt: c.CreatedAt,
	}
}

// ListOutput is the result of contacts_list.
type ListOutput struct {
	Contacts []Contact `json:"contacts"`
	Query    string    `json:"query"`
}

// DeleteOutput is the result of contacts_delete.
type DeleteOutput struct {
	Deleted bool `json:"deleted"`
}

// HandleList handles the contacts_list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListRequest](req)
	if err != nil {
		return errorResult(codeInvalidRequest, err.Error()), nil
	}

	contacts, err := h.store.List(ctx, input.Query)
	if err != nil {
		return h.storeError(ctx, err), nil
	}

	out := ListOutput{Contacts: make([]Contact, 0, len(contacts)), Query: input.Query}
	for _, c := range contacts {
		out.Contacts = append(out.Contacts, newContact(c))
	}
	return successResult(out)
}

// HandleGet handles the contacts_get tool call.
func (h *Handlers) HandleGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[IDRequest](req)
	if err != nil {
		return errorResult(codeInvalidRequest, err.Error()), nil
	}
	id, err := ds.ParseContactID(input.ID)
	if err != nil {
		return h.storeError(ctx, ds.ErrObjectNotFound), nil
	}

	c, err := h.store.Get(ctx, id)
	if err != nil {
		return h.storeError(ctx, err), nil
	}
	return successResult(newContact(c))
}

// HandleCreate handles the contacts_create tool call.
func (h *Handlers) HandleCreate(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, err := h.store.Create(ctx)
	if err != nil {
		return h.storeError(ctx, err), nil
	}
	return successResult(newContact(c))
}

// HandleUpdate handles the contacts_update tool call.
func (h *Handlers) HandleUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[UpdateRequest](req)
	if err != nil {
		return errorResult(codeInvalidRequest, err.Error()), nil
	}
	id, err := ds.ParseContactID(input.ID)
	if err != nil {
		return h.storeError(ctx, ds.ErrObjectNotFound), nil
	}

	c, err := h.store.Update(ctx, id, &ds.ContactPatch{
		First:    input.First,
		Last:     input.Last,
		Avatar:   input.Avatar,
		Twitter:  input.Twitter,
		Notes:    input.Notes,
		Favorite: input.Favorite,
	})
	if err != nil {
		return h.storeError(ctx, err), nil
	}
	return successResult(newContact(c))
}

// HandleDelete handles the contacts_delete tool call.
func (h *Handlers) HandleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[IDRequest](req)
	if err != nil {
		return errorResult(codeInvalidRequest, err.Error()), nil
	}
	id, err := ds.ParseContactID(input.ID)
	if err != nil {
		return successResult(DeleteOutput{Deleted: false})
	}

	deleted, err := h.store.Delete(ctx, id)
	if err != nil {
		return h.storeError(ctx, err), nil
	}
	return successResult(DeleteOutput{Deleted: deleted})
}

const (
	codeInvalidRequest = "INVALID_REQUEST"
	codeNotFound       = "NOT_FOUND"
	codeInternal       = "INTERNAL"
)

// storeError turns a store error into an error result, unexpected errors are
// logged and their message is not disclosed.
func (h *Handlers) storeError(ctx context.Context, err error) *mcp.CallToolResult {
	if errors.Is(err, ds.ErrObjectNotFound) {
		return errorResult(codeNotFound, "contact not found")
	}
	h.logger.ErrorContext(ctx, "tool call failed", "err", err)
	return errorResult(codeInternal, "an internal error occurred")
}

// errorResult creates an MCP error result.
func errorResult(code, message string) *mcp.CallToolResult {
	content, _ := json.Marshal(map[string]any{
		"error": map[string]any{"code": code, "message": message},
	})
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}

// decode unmarshals MCP request arguments into a typed struct.
func decode[T any](req mcp.CallToolRequest) (T, error) {
	var result T
	b, err := json.Marshal(req.GetArguments())
	if err != nil {
		return result, fmt.Errorf("marshal args: %w", err)
	}
	err = json.Unmarshal(b, &result)
	if err != nil {
		return result, fmt.Errorf("unmarshal args: %w", err)
	}
	return result, nil
}
