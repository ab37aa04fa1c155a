package mcpserver

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michaelx11/associative-search/internal/cache"
	"github.com/michaelx11/associative-search/internal/memindex"
	"github.com/michaelx11/associative-search/internal/pipeline"
	"github.com/michaelx11/associative-search/internal/synonym"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()

	recordsPath := filepath.Join(dir, "records.jsonl")
	require.NoError(t, os.WriteFile(recordsPath, []byte(
		`["book of job", ["patience"]]`+"\n"+
			`["story of patience", ["virtue"]]`+"\n"+
			`["tale of virtue", ["patience"]]`+"\n",
	), 0o644))
	norm, err := memindex.Build(recordsPath, 3, false)
	require.NoError(t, err)

	synPath := filepath.Join(dir, "syn.txt")
	require.NoError(t, os.WriteFile(synPath, []byte("placeholder,placeholder2\n"), 0o644))
	syn, err := synonym.Build(synPath)
	require.NoError(t, err)

	p := pipeline.New(norm, norm, syn, syn)
	return New(p, cache.New(16))
}

func callTool(t *testing.T, s *Server, params interface{}) *mcp.CallToolResult {
	t.Helper()
	raw, err := json.Marshal(params)
	require.NoError(t, err)

	result, err := s.handleAssociate(context.Background(), &mcp.CallToolRequest{
		Params: &mcp.CallToolParamsRaw{Arguments: raw},
	})
	require.NoError(t, err)
	return result
}

func TestHandleAssociate_ReturnsChainsAsJSON(t *testing.T) {
	s := testServer(t)

	result := callTool(t, s, associateParams{
		Terms:  []string{"job", "virtue"},
		Stages: []string{"WikiArticleStem", "WikiArticleStem"},
	})
	require.False(t, result.IsError)
	require.Len(t, result.Content, 1)

	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)

	var decoded pipeline.Result
	require.NoError(t, json.Unmarshal([]byte(text.Text), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, 200.0, decoded[0].Score)
}

func TestHandleAssociate_InvalidJSONReturnsToolError(t *testing.T) {
	s := testServer(t)

	result, err := s.handleAssociate(context.Background(), &mcp.CallToolRequest{
		Params: &mcp.CallToolParamsRaw{Arguments: []byte("not json")},
	})
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleVersion_ReturnsVersionString(t *testing.T) {
	s := testServer(t)
	result, err := s.handleVersion(context.Background(), &mcp.CallToolRequest{})
	require.NoError(t, err)
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "version")
}
