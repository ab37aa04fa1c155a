// Package mcpserver exposes the query pipeline as a Model Context Protocol
// tool ("associate"), plus a "version" tool, for agent clients that speak
// MCP rather than plain HTTP.
//
// Grounded on the teacher's internal/mcp/server.go (mcp.NewServer +
// AddTool registration) and internal/mcp/context_manifest_tool.go
// (marshal-result-to-TextContent response helper), trimmed from dozens of
// tools down to the two this domain needs.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/michaelx11/associative-search/internal/cache"
	"github.com/michaelx11/associative-search/internal/pipeline"
	"github.com/michaelx11/associative-search/internal/types"
	"github.com/michaelx11/associative-search/internal/version"
)

// Server wraps an MCP server registered with the "associate" and "version"
// tools.
type Server struct {
	mcp      *mcp.Server
	pipeline *pipeline.Pipeline
	cache    *cache.Cache
}

// New builds the MCP server and registers its tool set.
func New(p *pipeline.Pipeline, c *cache.Cache) *Server {
	s := &Server{
		mcp: mcp.NewServer(&mcp.Implementation{
			Name:    "associative-search-mcp",
			Version: version.Version,
		}, nil),
		pipeline: p,
		cache:    c,
	}
	s.registerTools()
	return s
}

// MCPServer returns the underlying *mcp.Server for the caller to run over
// stdio or another transport.
func (s *Server) MCPServer() *mcp.Server { return s.mcp }

func (s *Server) registerTools() {
	s.mcp.AddTool(&mcp.Tool{
		Name:        "associate",
		Description: "Run the associative query pipeline over the loaded corpus and return ranked, chained candidates.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"terms": {
					Type:        "array",
					Items:       &jsonschema.Schema{Type: "string"},
					Description: "Query terms; at least two are required for any candidate to survive scoring",
				},
				"stages": {
					Type:        "array",
					Items:       &jsonschema.Schema{Type: "string"},
					Description: "Ordered stage names drawn from WikiAllStem, WikiArticleStem, WikiArticleExact, Synonym, Homophone",
				},
				"flavortext": {
					Type:        "string",
					Description: "Optional free-text scoring hint",
				},
				"max_size": {
					Type:        "integer",
					Description: "Working-set guard threshold; defaults to 100000",
				},
			},
			Required: []string{"terms", "stages"},
		},
	}, s.handleAssociate)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "version",
		Description: "Report server version information.",
		InputSchema: &jsonschema.Schema{Type: "object"},
	}, s.handleVersion)
}

type associateParams struct {
	Terms      []string `json:"terms"`
	Stages     []string `json:"stages"`
	Flavortext string   `json:"flavortext"`
	MaxSize    int      `json:"max_size"`
}

func (s *Server) handleAssociate(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params associateParams
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return errorResult(fmt.Errorf("invalid parameters: %w", err)), nil
	}

	stages := make([]types.Stage, 0, len(params.Stages))
	for _, raw := range params.Stages {
		stages = append(stages, types.Stage(raw))
	}

	q := pipeline.Query{
		Terms:      params.Terms,
		Stages:     stages,
		Flavortext: params.Flavortext,
		MaxSize:    params.MaxSize,
	}

	key := cache.Key(q)
	if cached, ok := s.cache.Get(key); ok {
		return jsonResult(cached)
	}

	result, err := s.pipeline.Run(q)
	if err != nil {
		return errorResult(err), nil
	}
	s.cache.Put(key, result)
	return jsonResult(result)
}

func (s *Server) handleVersion(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(map[string]string{"version": version.FullInfo()})
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal tool result: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil
}

func errorResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
	}
}
