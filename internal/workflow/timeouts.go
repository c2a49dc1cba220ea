package workflow

import (
	"os"
	"strconv"
	"time"
)

// Environment variables consulted for default timeouts (spec §6).
const (
	EnvPromptTimeout      = "SWISSARMYHAMMER_PROMPT_TIMEOUT"
	EnvUserInputTimeout   = "SWISSARMYHAMMER_USER_INPUT_TIMEOUT"
	EnvSubWorkflowTimeout = "SWISSARMYHAMMER_SUB_WORKFLOW_TIMEOUT"
)

func envSeconds(name string, fallback time.Duration) time.Duration {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	secs, err := strconv.Atoi(raw)
	if err != nil || secs <= 0 {
		return fallback
	}
	return time.Duration(secs) * time.Second
}

// DefaultPromptTimeout is the total prompt-generation wall-clock bound.
// A KeyTimeoutSecs value in the workflow context, when set, replaces it
// as the single bound for that prompt; there is no separate
// streaming-inactivity bound.
func DefaultPromptTimeout() time.Duration {
	return envSeconds(EnvPromptTimeout, 3600*time.Second)
}

// DefaultUserInputTimeout bounds an interactive "wait for user" action.
func DefaultUserInputTimeout() time.Duration {
	return envSeconds(EnvUserInputTimeout, 300*time.Second)
}

// DefaultSubWorkflowTimeout bounds a nested sub-workflow run.
func DefaultSubWorkflowTimeout() time.Duration {
	return envSeconds(EnvSubWorkflowTimeout, 3600*time.Second)
}
