// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes read-only vault tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/vaultpress/internal/site"
	"github.com/starford/vaultpress/internal/vault"
)

const noteFormatURI = "vaultpress://note-format"

// Server wraps the MCP server with vault tools.
type Server struct {
	mcp    *server.MCPServer
	holder *site.Holder
}

// New creates a new MCP server with all vault tools registered. Tools read
// the snapshot current at call time.
func New(holder *site.Holder, version string) *Server {
	s := &Server{holder: holder}

	s.mcp = server.NewMCPServer(
		"vaultpress",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("vault_tree",
		mcp.WithDescription("Return the vault navigation tree as JSON: folders, folder notes and documents in display order."),
	), s.vaultTree)

	s.mcp.AddTool(mcp.NewTool("vault_list",
		mcp.WithDescription("List vault documents in navigation order, paginated."),
		mcp.WithNumber("page", mcp.Description("1-based page number (default 1)")),
		mcp.WithNumber("size", mcp.Description("Page size (default 20)")),
	), s.vaultList)

	s.mcp.AddTool(mcp.NewTool("vault_tags",
		mcp.WithDescription("List the distinct lowercase tags used in the vault."),
		mcp.WithBoolean("counts", mcp.Description("Include usage counts, most used first")),
	), s.vaultTags)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read a vault note by slug. Returns title, tags, Markdown source and neighbours."),
		mcp.WithString("slug", mcp.Required(), mcp.Description("Note slug (e.g. projects/my-app)")),
	), s.readNote)

	s.mcp.AddTool(mcp.NewTool("resolve_link",
		mcp.WithDescription("Resolve a wiki-link target such as 'My Note' or 'Diagram.png' to its site route."),
		mcp.WithString("target", mcp.Required(), mcp.Description("Wiki-link target as written inside [[...]]")),
	), s.resolveLink)

	s.mcp.AddTool(mcp.NewTool("get_backlinks",
		mcp.WithDescription("Find all notes whose wiki-links point at the specified note."),
		mcp.WithString("slug", mcp.Required(), mcp.Description("Slug of the note to find backlinks for")),
	), s.getBacklinks)

	s.mcp.AddTool(mcp.NewTool("get_note_format",
		mcp.WithDescription("Describe how vault files map to titles, slugs and the navigation tree."),
	), s.getNoteFormat)

	s.mcp.AddResource(
		mcp.NewResource(noteFormatURI, "Vault Note Format",
			mcp.WithResourceDescription("How vault Markdown files are titled, ordered and linked."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readNoteFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) vaultTree(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.holder.Load().Tree)
}

func (s *Server) vaultList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	page := req.GetInt("page", 1)
	size := req.GetInt("size", 0)
	items, total := vault.Page(s.holder.Load().Flat, page, size)
	return jsonResult(map[string]any{
		"items":       items,
		"page":        page,
		"total_pages": total,
	})
}

func (s *Server) vaultTags(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap := s.holder.Load()
	if req.GetBool("counts", false) {
		return jsonResult(snap.TagCounts)
	}
	return mcp.NewToolResultText(strings.Join(snap.Tags, "\n")), nil
}

func (s *Server) readNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slug, err := req.RequireString("slug")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	snap := s.holder.Load()
	entry, err := snap.Note(slug)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", slug)), nil
	}
	prev, next := vault.Neighbours(snap.Flat, entry.Slug)
	return jsonResult(map[string]any{
		"title":    entry.Title,
		"slug":     entry.Slug,
		"path":     entry.ID,
		"tags":     entry.Data.Tags,
		"markdown": string(entry.Body),
		"prev":     prev,
		"next":     next,
	})
}

func (s *Server) resolveLink(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	target, err := req.RequireString("target")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	route, ok := s.holder.Load().Links.Resolve(target)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unresolved: %s", target)), nil
	}
	return mcp.NewToolResultText(route), nil
}

func (s *Server) getBacklinks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slug, err := req.RequireString("slug")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	bl := s.holder.Load().Backlinks[strings.Trim(slug, "/")]
	if len(bl) == 0 {
		return mcp.NewToolResultText("no backlinks found"), nil
	}
	slugs := make([]string, 0, len(bl))
	for _, it := range bl {
		slugs = append(slugs, it.Slug)
	}
	return mcp.NewToolResultText(strings.Join(slugs, "\n")), nil
}

func (s *Server) getNoteFormat(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(NoteFormat), nil
}

func (s *Server) readNoteFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      noteFormatURI,
			MIMEType: "text/markdown",
			Text:     NoteFormat,
		},
	}, nil
}
