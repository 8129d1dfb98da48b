// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes read-only portfolio tools for LLM integration via stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/bundle"
	"github.com/starford/folio/internal/models"
	"github.com/starford/folio/internal/portfolioservice"
)

// BundleFormatURI is the resource describing the bundle contract.
const BundleFormatURI = "folio://bundle-format"

// Server wraps the MCP server with portfolio tools.
type Server struct {
	mcp *server.MCPServer
	svc *portfolioservice.Service
}

// New creates a new MCP server with all portfolio tools registered.
// Edits are not exposed; they go through edit sessions on the REST API.
func New(svc *portfolioservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Folio",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("get_content",
		mcp.WithDescription("Return every repository, loose override, the theme and the edit session state."),
	), s.getContent)

	s.mcp.AddTool(mcp.NewTool("list_records",
		mcp.WithDescription("List the records of one repository."),
		mcp.WithString("repo", mcp.Required(),
			mcp.Description("Repository name"),
			mcp.Enum("skills", "projects", "experiences", "certificates", "art", "contacts")),
	), s.listRecords)

	s.mcp.AddTool(mcp.NewTool("get_override",
		mcp.WithDescription("Read one loose override (a text, image or media value keyed by a semantic name)."),
		mcp.WithString("kind", mcp.Required(), mcp.Description("Override kind"), mcp.Enum("text", "img", "media")),
		mcp.WithString("key", mcp.Required(), mcp.Description("Semantic key, e.g. hero_title")),
	), s.getOverride)

	s.mcp.AddTool(mcp.NewTool("session_status",
		mcp.WithDescription("Report whether an edit session is open."),
	), s.sessionStatus)

	s.mcp.AddTool(mcp.NewTool("export_bundle",
		mcp.WithDescription("Export all content and overrides as a bundle. "+
			"Read the folio://bundle-format resource for the layout."),
		mcp.WithString("format", mcp.Description("json (default) or yaml")),
	), s.exportBundle)

	s.mcp.AddResource(
		mcp.NewResource(BundleFormatURI, "Bundle Format Contract",
			mcp.WithResourceDescription("Layout of exported portfolio bundles."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readBundleFormatResource,
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

func (s *Server) getContent(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.svc.State(ctx))
}

func (s *Server) listRecords(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	repo, err := req.RequireString("repo")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	items, err := s.svc.Records(ctx, repo)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(items)
}

func (s *Server) getOverride(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind, err := req.RequireString("kind")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	key, err := req.RequireString("key")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	v, err := s.svc.Override(ctx, models.OverrideKind(kind), key)
	if errors.Is(err, apperr.ErrNotFound) {
		return mcp.NewToolResultError("no override " + kind + "/" + key), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(v), nil
}

func (s *Server) sessionStatus(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.svc.Session(ctx))
}

func (s *Server) exportBundle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	format, err := bundle.ParseFormat(req.GetString("format", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := s.svc.Export(ctx, format)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) readBundleFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      BundleFormatURI,
			MIMEType: "text/markdown",
			Text:     BundleFormatContract,
		},
	}, nil
}
