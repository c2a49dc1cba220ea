// Package workflow implements the action parser, action executor,
// sub-workflow runner, and shell action that together drive a workflow
// run: a sequence of typed actions executed against a shared context.
package workflow

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/osteele/liquid"
)

// Reserved context keys (spec §3).
const (
	KeyClaudeResponse   = "claude_response"
	KeyLastActionResult = "last_action_result"
	KeyWorkflowStack    = "_workflow_stack"
	KeyQuiet            = "_quiet"
	KeyTimeoutSecs      = "_timeout_secs"
	KeySuccess          = "success"
	KeyFailure          = "failure"
	KeyExitCode         = "exit_code"
	KeyStdout           = "stdout"
	KeyStderr           = "stderr"
	KeyDurationMs       = "duration_ms"
	KeyAbortRequested   = "__ABORT_REQUESTED__"
)

// Context is the string-keyed map of structured values threaded through
// a workflow run.
type Context map[string]any

// Clone returns a shallow copy of the context, suitable for a
// sub-workflow's copy-on-enter semantics.
func (c Context) Clone() Context {
	out := make(Context, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// WithoutReserved returns a copy excluding every key beginning with
// "_", used when a sub-workflow's result is surfaced to its parent.
func (c Context) WithoutReserved() Context {
	out := make(Context, len(c))
	for k, v := range c {
		if strings.HasPrefix(k, "_") {
			continue
		}
		out[k] = v
	}
	return out
}

// WorkflowStack reads the _workflow_stack reserved key as a string
// slice, tolerating it being absent or of an unexpected shape.
func (c Context) WorkflowStack() []string {
	raw, ok := c[KeyWorkflowStack]
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

var substitutionPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Substitute replaces every ${name} occurrence in s with the
// stringified value of name from the context; an unresolved name is
// left untouched, literal.
func (c Context) Substitute(s string) string {
	return substitutionPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := substitutionPattern.FindStringSubmatch(match)[1]
		v, ok := c[name]
		if !ok {
			return match
		}
		return stringify(v)
	})
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		// Unquote plain JSON strings/numbers/bools to their natural
		// representation; leave structured values as JSON.
		var s string
		if json.Unmarshal(b, &s) == nil {
			return s
		}
		return string(b)
	}
}

var liquidEngine = liquid.NewEngine()

// RenderLiquid renders template as a full liquid document (filters,
// conditionals, loops — the stdlib liquid grammar) against the context,
// excluding any key beginning with "_", then applies ${var} substitution
// as a fallback pass for anything liquid left untouched. A template that
// fails to parse is returned with only the ${var} pass applied, so a
// malformed description still renders something instead of erroring the
// whole action.
func (c Context) RenderLiquid(template string) string {
	visible := c.WithoutReserved()
	bindings := make(map[string]any, len(visible))
	for k, v := range visible {
		bindings[k] = v
	}

	out, err := liquidEngine.ParseAndRenderString(template, bindings)
	if err != nil {
		return c.Substitute(template)
	}
	return c.Substitute(out)
}
