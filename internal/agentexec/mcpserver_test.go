package agentexec

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func startTestServer(t *testing.T) *MCPServer {
	t.Helper()
	srv, err := StartMCPServer(0)
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	return srv
}

func TestMCPServerHealth(t *testing.T) {
	srv := startTestServer(t)

	resp, err := http.Get(fmt.Sprintf("%s/health", srv.URL()))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "healthy", body["status"])
}

func rpcCall(t *testing.T, url string, payload map[string]any) map[string]any {
	t.Helper()
	buf, err := json.Marshal(payload)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(buf))
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestMCPServerInitialize(t *testing.T) {
	srv := startTestServer(t)
	body := rpcCall(t, srv.URL()+"/", map[string]any{"jsonrpc": "2.0", "id": 1, "method": "initialize"})
	result := body["result"].(map[string]any)
	require.Equal(t, protocolVersion, result["protocol_version"])
}

func TestMCPServerToolsList(t *testing.T) {
	srv := startTestServer(t)
	body := rpcCall(t, srv.URL()+"/mcp", map[string]any{"jsonrpc": "2.0", "id": 2, "method": "tools/list"})
	result := body["result"].(map[string]any)
	tools := result["tools"].([]any)
	require.Len(t, tools, len(toolRegistry))
}

func TestMCPServerToolsCall(t *testing.T) {
	srv := startTestServer(t)
	body := rpcCall(t, srv.URL()+"/", map[string]any{
		"jsonrpc": "2.0", "id": 3, "method": "tools/call",
		"params": map[string]any{"name": "files_read", "arguments": map[string]any{"absolute_path": "/tmp/x"}},
	})
	result := body["result"].(map[string]any)
	require.Equal(t, false, result["isError"])
}

func TestMCPServerToolsCallRejectsInvalidGlob(t *testing.T) {
	srv := startTestServer(t)
	body := rpcCall(t, srv.URL()+"/", map[string]any{
		"jsonrpc": "2.0", "id": 5, "method": "tools/call",
		"params": map[string]any{"name": "files_glob", "arguments": map[string]any{"pattern": "["}},
	})
	result := body["result"].(map[string]any)
	require.Equal(t, true, result["isError"])
}

func TestMCPServerToolsCallRejectsInvalidSearchIndexPattern(t *testing.T) {
	srv := startTestServer(t)
	body := rpcCall(t, srv.URL()+"/", map[string]any{
		"jsonrpc": "2.0", "id": 7, "method": "tools/call",
		"params": map[string]any{
			"name":      "search_index",
			"arguments": map[string]any{"patterns": []any{"**/*.go", "["}},
		},
	})
	result := body["result"].(map[string]any)
	require.Equal(t, true, result["isError"])
}

func TestMCPServerToolsCallEditReturnsDiffPreview(t *testing.T) {
	srv := startTestServer(t)
	body := rpcCall(t, srv.URL()+"/", map[string]any{
		"jsonrpc": "2.0", "id": 6, "method": "tools/call",
		"params": map[string]any{
			"name": "files_edit",
			"arguments": map[string]any{
				"file_path":  "/tmp/x",
				"old_string": "hello",
				"new_string": "goodbye",
			},
		},
	})
	result := body["result"].(map[string]any)
	require.Equal(t, false, result["isError"])
	content := result["content"].([]any)
	require.NotEmpty(t, content)
}

func TestMCPServerUnknownMethod(t *testing.T) {
	srv := startTestServer(t)
	body := rpcCall(t, srv.URL()+"/", map[string]any{"jsonrpc": "2.0", "id": 4, "method": "bogus"})
	errObj := body["error"].(map[string]any)
	require.Equal(t, float64(-32601), errObj["code"])
}
