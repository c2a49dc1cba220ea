package agentexec

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/cloudwego/eino/schema"
	"github.com/oklog/ulid/v2"

	"github.com/swissarmyhammer/agent-runtime/internal/logging"
)

// Session is an open conversation with the LLM runtime.
type Session struct {
	ID       string
	messages []*schema.Message
}

// GenerationResult is what the runtime returns from one generate call.
type GenerationResult struct {
	Text            string
	TokensGenerated int
}

// LLMEngine is the external collaborator that actually talks to a
// model. The agent executor treats it as a black box: open a session,
// discover the MCP tool registry, append messages, generate under a
// timeout. The default implementation (NewEinoEngine) is backed by
// github.com/cloudwego/eino's ToolCallingChatModel.
type LLMEngine interface {
	OpenSession(ctx context.Context) (*Session, error)
	DiscoverTools(ctx context.Context, session *Session, mcpURL string) error
	Generate(ctx context.Context, session *Session) (GenerationResult, error)
	Health(ctx context.Context) (activeSessions int, modelLoaded bool, err error)
	Shutdown(ctx context.Context) error
}

// ExecutionError wraps any failure arising during ExecutePrompt, per
// spec §5 failure-semantics table: "LLM init failure; no further
// prompts accepted" and "execution error" surfaces for the rest.
type ExecutionError struct{ Message string }

func (e *ExecutionError) Error() string { return e.Message }

// ResourceStats reports resource usage for monitoring.
type ResourceStats struct {
	MemoryUsageMB          uint64
	ModelSizeMB            uint64
	ActiveSessions         int
	TotalTokensProcessed   uint64
	AverageTokensPerSecond float64
}

// AgentResponse is the result of ExecutePrompt.
type AgentResponse struct {
	Text             string
	ExecutorType     string
	MCPServerURL     string
	ExecutionTimeMs  int64
	TokensGenerated  int
	SessionID        string
	TimeoutSeconds   int
}

// Executor owns the singleton lifecycle: config validation, the
// in-process MCP server, and the LLM engine. A process-wide mutex
// guards initialization so the (expensive) model load happens once.
type Executor struct {
	mu sync.Mutex

	config      Config
	initialized bool
	mcpServer   *MCPServer
	engine      LLMEngine

	totalTokens   uint64
	totalDuration time.Duration
}

var (
	globalMu       sync.Mutex
	globalExecutor *Executor
)

// GetGlobalExecutor returns the process-wide singleton, initializing it
// on first call. Subsequent calls ignore a differing config and return
// the already-initialized instance, matching the "load once per
// process" guarantee.
func GetGlobalExecutor(ctx context.Context, config Config, engine LLMEngine) (*Executor, error) {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalExecutor != nil {
		return globalExecutor, nil
	}

	e := &Executor{config: config, engine: engine}
	if err := e.Initialize(ctx); err != nil {
		return nil, err
	}
	globalExecutor = e
	return e, nil
}

// ResetGlobalExecutorForTest clears the singleton; test-only.
func ResetGlobalExecutorForTest() {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalExecutor = nil
}

// Initialize validates configuration, starts the in-process MCP
// server, and is idempotent.
func (e *Executor) Initialize(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.initialized {
		return nil
	}

	if err := e.config.Validate(); err != nil {
		return err
	}

	logging.Logger.Info().Str("model", e.config.Model.Source.DisplayName()).Msg("initializing agent executor")

	srv, err := StartMCPServer(e.config.MCPServer.Port)
	if err != nil {
		return &ExecutionError{fmt.Sprintf("failed to start in-process MCP server: %s", err)}
	}
	e.mcpServer = srv

	e.initialized = true
	logging.Logger.Info().Str("mcp_url", srv.URL()).Msg("agent executor initialized")
	return nil
}

// Shutdown signals the MCP server and the LLM engine. Idempotent.
func (e *Executor) Shutdown(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.initialized {
		return nil
	}

	if e.engine != nil {
		if err := e.engine.Shutdown(ctx); err != nil {
			logging.Logger.Error().Err(err).Msg("LLM engine shutdown failed")
		}
	}
	if e.mcpServer != nil {
		if err := e.mcpServer.Shutdown(ctx); err != nil {
			return &ExecutionError{fmt.Sprintf("failed to shutdown MCP server: %s", err)}
		}
	}

	e.initialized = false
	logging.Logger.Info().Msg("agent executor shutdown")
	return nil
}

// MCPServerURL returns the bound MCP server URL, if running.
func (e *Executor) MCPServerURL() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mcpServer == nil {
		return ""
	}
	return e.mcpServer.URL()
}

// ExecutePrompt runs the session-open -> tool-discovery -> message-append
// -> generate-under-timeout pipeline described in spec §4.12 item 4. On
// timeout it returns any partial text already produced rather than a
// bare error, per the §4.12 failure-semantics table ("Timeout in Claude
// read loop: if any partial output has been received, return it").
func (e *Executor) ExecutePrompt(ctx context.Context, systemPrompt, userPrompt string, timeout time.Duration) (AgentResponse, error) {
	e.mu.Lock()
	initialized := e.initialized
	engine := e.engine
	mcpURL := ""
	if e.mcpServer != nil {
		mcpURL = e.mcpServer.URL()
	}
	e.mu.Unlock()

	if !initialized {
		return AgentResponse{}, &ExecutionError{"agent executor not initialized"}
	}
	if engine == nil {
		return AgentResponse{}, &ExecutionError{"no LLM engine configured"}
	}

	start := time.Now()

	var session *Session
	openErr := backoff.Retry(func() error {
		s, err := engine.OpenSession(ctx)
		if err != nil {
			return err
		}
		session = s
		return nil
	}, backoff.WithContext(backoff.NewExponentialBackOff(), ctx))
	if openErr != nil {
		return AgentResponse{}, &ExecutionError{fmt.Sprintf("failed to open session: %s", openErr)}
	}

	if err := backoff.Retry(func() error {
		return engine.DiscoverTools(ctx, session, mcpURL)
	}, backoff.WithContext(backoff.NewExponentialBackOff(), ctx)); err != nil {
		return AgentResponse{}, &ExecutionError{fmt.Sprintf("failed to discover tools: %s", err)}
	}

	if systemPrompt != "" {
		session.messages = append(session.messages, schema.SystemMessage(systemPrompt))
	}
	session.messages = append(session.messages, schema.UserMessage(userPrompt))

	genCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result, genErr := engine.Generate(genCtx, session)
	elapsed := time.Since(start)

	if genErr != nil {
		if genCtx.Err() != nil && result.Text != "" {
			return e.respond(session, result, mcpURL, elapsed, timeout), nil
		}
		if genCtx.Err() != nil {
			return AgentResponse{}, &ExecutionError{"generation request timed out"}
		}
		return AgentResponse{}, &ExecutionError{fmt.Sprintf("generation failed: %s", genErr)}
	}

	e.mu.Lock()
	e.totalTokens += uint64(result.TokensGenerated)
	e.totalDuration += elapsed
	e.mu.Unlock()

	return e.respond(session, result, mcpURL, elapsed, timeout), nil
}

func (e *Executor) respond(session *Session, result GenerationResult, mcpURL string, elapsed time.Duration, timeout time.Duration) AgentResponse {
	return AgentResponse{
		Text:            result.Text,
		ExecutorType:    "eino",
		MCPServerURL:    mcpURL,
		ExecutionTimeMs: elapsed.Milliseconds(),
		TokensGenerated: result.TokensGenerated,
		SessionID:       session.ID,
		TimeoutSeconds:  int(timeout.Seconds()),
	}
}

// GetResourceStats reports current resource usage.
func (e *Executor) GetResourceStats(ctx context.Context) (ResourceStats, error) {
	e.mu.Lock()
	initialized := e.initialized
	engine := e.engine
	totalTokens := e.totalTokens
	totalDuration := e.totalDuration
	e.mu.Unlock()

	if !initialized {
		return ResourceStats{}, &ExecutionError{"agent not initialized"}
	}

	active := 0
	if engine != nil {
		if n, _, err := engine.Health(ctx); err == nil {
			active = n
		}
	}

	avg := 0.0
	if totalDuration > 0 {
		avg = float64(totalTokens) / totalDuration.Seconds()
	}

	return ResourceStats{
		ActiveSessions:         active,
		TotalTokensProcessed:   totalTokens,
		AverageTokensPerSecond: avg,
	}, nil
}

// NewSessionID mints a new ULID-based session identifier.
func NewSessionID() string {
	return ulid.Make().String()
}
