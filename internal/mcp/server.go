package mcp

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/jcdickinson/rustnav/internal/cache"
	"github.com/jcdickinson/rustnav/internal/markdown"
	"github.com/jcdickinson/rustnav/internal/navigator"
	"github.com/jcdickinson/rustnav/internal/search"
	"github.com/jcdickinson/rustnav/internal/semver"
	"github.com/jcdickinson/rustnav/internal/source"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

//go:embed instructions.md
var instructions string

// Server exposes Navigator/SearchIndex over MCP: resolve_path and
// search_docs tools, plus a rustdoc://{crate}/{path} resource template
// for reading a resolved item's rendered docs. This is the thin,
// non-normative front-end named in SPEC_FULL.md §1/§6 — it carries no
// state of its own beyond the Navigator it wraps.
type Server struct {
	mcpServer *server.MCPServer
	nav       *navigator.Navigator
	cache     *cache.DiskCache
	opts      search.Options
	remote    *source.RemoteSource
}

func NewServer(nav *navigator.Navigator, diskCache *cache.DiskCache, opts search.Options, remote *source.RemoteSource) *Server {
	s := &Server{nav: nav, cache: diskCache, opts: opts, remote: remote}

	mcpServer := server.NewMCPServer(
		"rustnav",
		"0.1.0",
		server.WithInstructions(instructions),
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	s.registerTools(mcpServer)
	s.registerResources(mcpServer)

	s.mcpServer = mcpServer
	return s
}

func (s *Server) registerTools(mcpServer *server.MCPServer) {
	mcpServer.AddTool(
		mcp.NewTool("resolve_path",
			mcp.WithDescription("Resolve a Rust item path (e.g. \"tokio::sync::Mutex\") to its documentation. Returns a rustdoc:// URI that can be read as a resource."),
			mcp.WithString("path",
				mcp.Description("Fully qualified item path, optionally with a version constraint on the crate segment (\"serde@1::Deserialize\")"),
				mcp.Required(),
			),
		),
		s.handleResolvePath,
	)

	mcpServer.AddTool(
		mcp.NewTool("search_docs",
			mcp.WithDescription("BM25 search across one or more crates' documentation. Returns rustdoc:// URIs ranked by relevance and inbound-link authority."),
			mcp.WithString("query",
				mcp.Description("Search query"),
				mcp.Required(),
			),
			mcp.WithArray("crates",
				mcp.Description("Crate names to search; required (search is always scoped to named crates)"),
				mcp.Items(map[string]interface{}{"type": "string"}),
				mcp.Required(),
			),
			mcp.WithNumber("limit",
				mcp.Description("Maximum number of results"),
			),
		),
		s.handleSearchDocs,
	)

	mcpServer.AddTool(
		mcp.NewTool("list_crates",
			mcp.WithDescription("List crates known to the standard-library and local-workspace providers (the remote registry is unbounded and is never listed)."),
		),
		s.handleListCrates,
	)

	mcpServer.AddTool(
		mcp.NewTool("find_crates",
			mcp.WithDescription("Search the crates registry by name or description to discover which crate to load (distinct from search_docs, which searches inside the named crates, loading them as needed)."),
			mcp.WithString("query",
				mcp.Description("Registry search query"),
				mcp.Required(),
			),
			mcp.WithNumber("limit",
				mcp.Description("Maximum number of results"),
			),
		),
		s.handleFindCrates,
	)
}

func (s *Server) registerResources(mcpServer *server.MCPServer) {
	mcpServer.AddResourceTemplate(
		mcp.NewResourceTemplate(
			"rustdoc://{crate}/{path}",
			"Rust documentation item",
			mcp.WithTemplateDescription("Read a specific Rust documentation item. resolve_path and search_docs results return these URIs."),
			mcp.WithTemplateMIMEType("text/markdown"),
		),
		s.handleReadResource,
	)
}

func (s *Server) handleResolvePath(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	path, _ := args["path"].(string)
	if path == "" {
		return mcp.NewToolResultError("missing required parameter: path"), nil
	}

	handle, err := s.nav.ResolvePath(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	itemPath, _ := handle.Path()
	uri := fmt.Sprintf("rustdoc://%s/%s", handle.Crate.Name, itemPath)
	return mcp.NewToolResultText(uri), nil
}

func (s *Server) handleSearchDocs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	query, _ := args["query"].(string)
	if query == "" {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	var crates []string
	if cratesRaw, ok := args["crates"].([]interface{}); ok {
		for _, c := range cratesRaw {
			if name, ok := c.(string); ok {
				crates = append(crates, name)
			}
		}
	}
	if len(crates) == 0 {
		return mcp.NewToolResultError("missing required parameter: crates"), nil
	}

	opts := s.opts
	if limit, ok := args["limit"].(float64); ok {
		opts.MaxResults = int(limit)
	}

	results := search.SearchCrates(ctx, s.nav, s.cache, crates, query, opts)

	latest, _ := semver.ParseConstraint("latest")
	var b strings.Builder
	for _, r := range results {
		path := r.CrateName
		if cd, found, err := s.nav.LoadCrate(ctx, r.CrateName, latest); err == nil && found {
			if p, ok := r.Path(cd); ok {
				path = p
			}
		}
		fmt.Fprintf(&b, "rustdoc://%s/%s\tscore=%.3f\n", r.CrateName, path, r.Score)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleListCrates(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	infos, err := s.nav.ListAvailableCrates(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var b strings.Builder
	for _, info := range infos {
		fmt.Fprintf(&b, "%s %s (%s)\n", info.Name, info.Version.String(), info.Provenance)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleFindCrates(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	query, _ := args["query"].(string)
	if query == "" {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}
	limit := 20
	if l, ok := args["limit"].(float64); ok {
		limit = int(l)
	}

	results, err := s.remote.SearchRegistry(ctx, query, limit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	for _, r := range results {
		fmt.Fprintf(&b, "%s %s\t%d downloads\t%s\n", r.Name, r.MaxVersion, r.Downloads, r.Description)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleReadResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	trimmed := strings.TrimPrefix(uri, "rustdoc://")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) < 2 {
		return nil, fmt.Errorf("invalid resource URI: %s", uri)
	}
	crateName, itemPath := parts[0], parts[1]

	handle, err := s.nav.ResolvePath(ctx, crateName+"::"+itemPath)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", uri, err)
	}

	var b strings.Builder
	if handle.Item.Docs != nil {
		b.WriteString(markdown.RenderDocs(ctx, s.nav, handle, *handle.Item.Docs))
	}
	for _, frag := range handle.Fragments() {
		b.WriteString("\n\n## ")
		b.WriteString(frag.Name)
		b.WriteString("\n\n")
		b.WriteString(frag.Content)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/markdown",
			Text:     b.String(),
		},
	}, nil
}

func (s *Server) Run() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) Shutdown(_ context.Context) error {
	return nil
}
