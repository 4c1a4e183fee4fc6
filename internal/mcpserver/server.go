// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes read-only seokit tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/seokit/internal/audit"
	"github.com/starford/seokit/internal/seoservice"
)

const contractURI = "seokit://settings-contract"

// AuditLister reads recent audit entries.
type AuditLister interface {
	List(ctx context.Context, limit int) ([]audit.Entry, error)
}

// Server wraps the MCP server with seokit tools.
type Server struct {
	mcp   *server.MCPServer
	svc   *seoservice.Service
	audit AuditLister
}

// New creates a new MCP server with all seokit tools registered.
func New(svc *seoservice.Service, auditLog AuditLister) *Server {
	s := &Server{svc: svc, audit: auditLog}

	s.mcp = server.NewMCPServer(
		"seokit",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("get_seo_settings",
		mcp.WithDescription("Return the site-wide SEO settings record as JSON."),
	), s.getSettings)

	s.mcp.AddTool(mcp.NewTool("render_sitemap",
		mcp.WithDescription("Render sitemap.xml for the currently published content."),
	), s.renderSitemap)

	s.mcp.AddTool(mcp.NewTool("render_robots",
		mcp.WithDescription("Render robots.txt from the current settings."),
	), s.renderRobots)

	s.mcp.AddTool(mcp.NewTool("resolve_metadata",
		mcp.WithDescription("Resolve title, description, canonical URL and social tags for a page path."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Public path of the page (e.g. /blog/hola)")),
	), s.resolveMetadata)

	s.mcp.AddTool(mcp.NewTool("list_audit_log",
		mcp.WithDescription("List the most recent SEO settings and sitemap audit entries, newest first."),
		mcp.WithNumber("limit", mcp.Description("Maximum entries to return (default 20)")),
	), s.listAudit)

	s.mcp.AddResource(
		mcp.NewResource(contractURI, "Settings Contract",
			mcp.WithResourceDescription("Fields, limits and derivation rules of the SEO settings record."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readContractResource,
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

func (s *Server) getSettings(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := s.svc.Settings(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(cfg)
}

func (s *Server) renderSitemap(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, err := s.svc.SitemapXML(ctx)
	if err != nil && !errors.Is(err, seoservice.ErrDegraded) {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err != nil {
		return mcp.NewToolResultError("degraded output: " + err.Error() + "\n\n" + string(out)), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) renderRobots(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, err := s.svc.Robots(ctx)
	if err != nil {
		return mcp.NewToolResultError("degraded output: " + err.Error() + "\n\n" + out), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (s *Server) resolveMetadata(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	meta, err := s.svc.Metadata(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(meta)
}

func (s *Server) listAudit(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", 20)
	entries, err := s.audit.List(ctx, limit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(entries) == 0 {
		return mcp.NewToolResultText("no audit entries"), nil
	}
	return jsonResult(entries)
}

func (s *Server) readContractResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      contractURI,
			MIMEType: "text/markdown",
			Text:     SettingsContract,
		},
	}, nil
}
