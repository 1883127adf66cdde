// Package mcp exposes the contacts store as Model Context Protocol tools.
package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	ds "github.com/oaiiae/huma-contacts/datastores"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

//nolint: gochecknoglobals
var toolRegistry = []toolEntry{
	{
		def: mcp.NewTool("contacts_list",
			mcp.WithDescription("List contacts, most recently created first. "+
				"An optional query keeps the contacts whose first or last name contains it, ignoring case."),
			mcp.WithString("query", mcp.Description("substring to search in first and last names")),
		),
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleList },
	},
	{
		def: mcp.NewTool("contacts_get",
			mcp.WithDescription("Get a contact by id."),
			mcp.WithString("id", mcp.Required(), mcp.Description("contact id")),
		),
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleGet },
	},
	{
		def: mcp.NewTool("contacts_create",
			mcp.WithDescription("Create an empty contact and return it."),
		),
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCreate },
	},
	{
		def: mcp.NewTool("contacts_update",
			mcp.WithDescription("Update a contact. Only the given fields are changed."),
			mcp.WithString("id", mcp.Required(), mcp.Description("contact id")),
			mcp.WithString("first", mcp.Description("first name")),
			mcp.WithString("last", mcp.Description("last name")),
			mcp.WithString("avatar", mcp.Description("avatar URL")),
			mcp.WithString("twitter", mcp.Description("twitter handle")),
			mcp.WithString("notes", mcp.Description("free-form notes, markdown")),
			mcp.WithBoolean("favorite", mcp.Description("favorite flag")),
		),
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleUpdate },
	},
	{
		def: mcp.NewTool("contacts_delete",
			mcp.WithDescription("Delete a contact. Deleting an unknown id is not an error."),
			mcp.WithString("id", mcp.Required(), mcp.Description("contact id")),
		),
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDelete },
	},
}

// ToolNames returns the names of the registered tools.
func ToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for _, entry := range toolRegistry {
		names = append(names, entry.def.Name)
	}
	return names
}

// NewServer creates a new MCP server with the contacts tools registered.
func NewServer(store ds.ContactsStore, logger *slog.Logger, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"huma-contacts",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(store, logger)
	for _, entry := range toolRegistry {
		s.AddTool(entry.def, entry.handler(h))
	}
	return s
}

// Run serves the MCP server on stdio until stdin is closed.
func Run(store ds.ContactsStore, logger *slog.Logger, version string) error {
	return server.ServeStdio(NewServer(store, logger, version))
}
