package agentexec

import (
	"context"
	"time"

	"github.com/swissarmyhammer/agent-runtime/internal/workflow"
)

// PromptExecutorAdapter implements workflow.PromptExecutor by delegating
// to an *Executor and flattening its AgentResponse into the
// (text, metadata) shape the prompt action expects.
type PromptExecutorAdapter struct {
	Executor *Executor
}

// NewPromptExecutorAdapter wraps e for use as a workflow.PromptExecutor.
func NewPromptExecutorAdapter(e *Executor) *PromptExecutorAdapter {
	return &PromptExecutorAdapter{Executor: e}
}

// ExecutePrompt implements workflow.PromptExecutor. wfCtx is accepted to
// satisfy the interface but is not otherwise consulted here: prompt
// substitution and timeout resolution from the workflow context already
// happened in PromptAction.Execute before this call.
func (a *PromptExecutorAdapter) ExecutePrompt(ctx context.Context, system, user string, wfCtx workflow.Context, timeout time.Duration) (string, map[string]any, error) {
	resp, err := a.Executor.ExecutePrompt(ctx, system, user, timeout)
	if err != nil {
		return "", nil, err
	}

	metadata := map[string]any{
		"executor_type":     resp.ExecutorType,
		"mcp_server_url":    resp.MCPServerURL,
		"execution_time_ms": resp.ExecutionTimeMs,
		"tokens_generated":  resp.TokensGenerated,
		"session_id":        resp.SessionID,
		"timeout_seconds":   resp.TimeoutSeconds,
	}

	return resp.Text, metadata, nil
}

var _ workflow.PromptExecutor = (*PromptExecutorAdapter)(nil)
