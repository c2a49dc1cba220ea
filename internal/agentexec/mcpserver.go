package agentexec

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-chi/chi/v5"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/swissarmyhammer/agent-runtime/internal/logging"
)

const protocolVersion = "2024-11-05"

// Version is the server_info version reported by the in-process MCP
// server; overridable for tests.
var Version = "dev"

// jsonRPCRequest is the subset of JSON-RPC 2.0 this server accepts.
type jsonRPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type jsonRPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  any             `json:"result,omitempty"`
	Error   *jsonRPCError   `json:"error,omitempty"`
}

type jsonRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// MCPServer is the in-process HTTP MCP server exposing the tool
// registry to the LLM runtime.
type MCPServer struct {
	httpSrv *http.Server
	ln      net.Listener
	done    chan struct{}
}

// StartMCPServer binds to 127.0.0.1:port (0 = OS-assigned) and begins
// serving in the background. Call Shutdown to stop it.
func StartMCPServer(port int) (*MCPServer, error) {
	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return nil, fmt.Errorf("failed to bind MCP server: %w", err)
	}

	r := chi.NewRouter()
	r.Get("/health", handleHealth)
	r.Post("/", handleRPC)
	r.Post("/mcp", handleRPC)

	s := &MCPServer{
		httpSrv: &http.Server{Handler: r},
		ln:      ln,
		done:    make(chan struct{}),
	}

	go func() {
		defer close(s.done)
		if err := s.httpSrv.Serve(ln); err != nil && err != http.ErrServerClosed {
			logging.Logger.Error().Err(err).Msg("in-process MCP server stopped unexpectedly")
		}
	}()

	logging.Logger.Info().Str("addr", s.Addr()).Msg("in-process MCP server listening")
	return s, nil
}

// Addr returns the bound "host:port" address.
func (s *MCPServer) Addr() string {
	return s.ln.Addr().String()
}

// Port returns the bound port.
func (s *MCPServer) Port() int {
	return s.ln.Addr().(*net.TCPAddr).Port
}

// URL returns the base HTTP URL for connecting to the server.
func (s *MCPServer) URL() string {
	return fmt.Sprintf("http://%s", s.Addr())
}

// Shutdown signals the server to stop gracefully. Idempotent.
func (s *MCPServer) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	err := s.httpSrv.Shutdown(ctx)
	<-s.done
	return err
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"service":   "agent-runtime-mcp",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   Version,
	})
}

func handleRPC(w http.ResponseWriter, r *http.Request) {
	var req jsonRPCRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, jsonRPCResponse{
			JSONRPC: "2.0",
			Error:   &jsonRPCError{Code: -32700, Message: "parse error"},
		})
		return
	}

	resp := jsonRPCResponse{JSONRPC: "2.0", ID: req.ID}

	switch req.Method {
	case "initialize":
		resp.Result = map[string]any{
			"protocol_version": protocolVersion,
			"capabilities": map[string]any{
				"tools": map[string]any{"list_changed": true},
			},
			"server_info": map[string]any{
				"name":    "agent-runtime",
				"version": Version,
			},
		}
	case "tools/list":
		resp.Result = map[string]any{"tools": toolRegistry}
	case "tools/call":
		resp.Result = handleToolsCall(req.Params)
	default:
		resp.Error = &jsonRPCError{Code: -32601, Message: fmt.Sprintf("Method not found: %s", req.Method)}
	}

	writeJSON(w, http.StatusOK, resp)
}

func handleToolsCall(params json.RawMessage) map[string]any {
	var p struct {
		Name      string         `json:"name"`
		Arguments map[string]any `json:"arguments"`
	}
	_ = json.Unmarshal(params, &p)

	if _, ok := FindTool(p.Name); !ok {
		return map[string]any{
			"content": []map[string]any{{"type": "text", "text": fmt.Sprintf("unknown tool: %s", p.Name)}},
			"isError": true,
		}
	}

	switch p.Name {
	case "files_glob":
		if pattern, ok := p.Arguments["pattern"].(string); ok {
			if err := validateGlobPattern(pattern); err != nil {
				return map[string]any{
					"content": []map[string]any{{"type": "text", "text": err.Error()}},
					"isError": true,
				}
			}
		}
	case "search_index":
		if raw, ok := p.Arguments["patterns"].([]any); ok {
			for _, v := range raw {
				pattern, ok := v.(string)
				if !ok {
					continue
				}
				if err := validateGlobPattern(pattern); err != nil {
					return map[string]any{
						"content": []map[string]any{{"type": "text", "text": err.Error()}},
						"isError": true,
					}
				}
			}
		}
	case "files_edit":
		return map[string]any{"content": []map[string]any{{"type": "text", "text": editDiffPreview(p.Arguments)}}, "isError": false}
	}

	return map[string]any{
		"content": []map[string]any{{"type": "text", "text": fmt.Sprintf("tool '%s' executed", p.Name)}},
		"isError": false,
	}
}

// validateGlobPattern reports whether pattern is a syntactically valid
// doublestar glob, matching it against an empty candidate purely to
// surface a compile/syntax error.
func validateGlobPattern(pattern string) error {
	if _, err := doublestar.Match(pattern, ""); err != nil {
		return fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
	}
	return nil
}

// editDiffPreview renders a unified diff summary between old_string and
// new_string arguments for a files_edit tool call, so the MCP client can
// preview the change without the underlying file mutation running here.
func editDiffPreview(args map[string]any) string {
	oldStr, _ := args["old_string"].(string)
	newStr, _ := args["new_string"].(string)

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(oldStr, newStr, false)
	return dmp.DiffPrettyText(diffs)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
