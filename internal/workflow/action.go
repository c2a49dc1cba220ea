package workflow

import (
	"context"
	"fmt"
)

// Action is a single typed workflow instruction.
type Action interface {
	// Execute runs the action against wfCtx, mutating it as needed, and
	// returns a result value. Implementations must set
	// wfCtx[KeyLastActionResult] to a boolean reflecting success before
	// returning.
	Execute(ctx context.Context, wfCtx Context) (any, error)
	Description() string
	Type() string
}

// AbortError is returned by Execute when an abort action has fired. The
// workflow runner observes this and terminates the entire run with an
// abort status, which propagates to any parent sub-workflow.
type AbortError struct{ Message string }

func (e *AbortError) Error() string { return fmt.Sprintf("workflow aborted: %s", e.Message) }

// ExecutionError wraps a non-abort action failure.
type ExecutionError struct {
	Action  string
	Message string
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Action, e.Message)
}

func setResult(wfCtx Context, ok bool) {
	wfCtx[KeyLastActionResult] = ok
}
