package workflow

import (
	"context"
	"fmt"
)

// RunStatus is the terminal status of a workflow run.
type RunStatus string

const (
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
	RunCancelled RunStatus = "cancelled"
)

// Runner executes a sequence of actions against a context, sequentially,
// stopping on the first error (abort or otherwise).
type Runner struct {
	Actions []Action
}

// Run executes every action in order. An AbortError halts the run with
// RunCompleted=false/abort semantics (the caller inspects the returned
// error's type); any other error is an execution failure.
func (r *Runner) Run(ctx context.Context, wfCtx Context) (RunStatus, error) {
	for _, action := range r.Actions {
		if _, err := action.Execute(ctx, wfCtx); err != nil {
			if _, isAbort := err.(*AbortError); isAbort {
				return RunFailed, err
			}
			if ctx.Err() != nil {
				return RunCancelled, err
			}
			return RunFailed, err
		}
	}
	return RunCompleted, nil
}

// WorkflowLoader resolves a workflow name to its action sequence.
type WorkflowLoader interface {
	Load(name string) ([]Action, error)
}

// SubWorkflowAction runs a nested workflow with cycle detection via the
// _workflow_stack reserved context key.
type SubWorkflowAction struct {
	Name   string
	Args   map[string]string
	Loader WorkflowLoader
}

func (a *SubWorkflowAction) Type() string        { return "sub-workflow" }
func (a *SubWorkflowAction) Description() string { return fmt.Sprintf(`Run workflow "%s"`, a.Name) }

func (a *SubWorkflowAction) Execute(ctx context.Context, wfCtx Context) (any, error) {
	stack := wfCtx.WorkflowStack()
	for _, name := range stack {
		if name == a.Name {
			setResult(wfCtx, false)
			return nil, &ExecutionError{
				Action: a.Type(),
				Message: fmt.Sprintf(
					"Circular workflow dependency detected: workflow '%s' is already in the execution stack",
					a.Name,
				),
			}
		}
	}

	actions, err := a.Loader.Load(a.Name)
	if err != nil {
		setResult(wfCtx, false)
		return nil, &ExecutionError{Action: a.Type(), Message: err.Error()}
	}

	childCtx := Context{
		KeyQuiet:         wfCtx[KeyQuiet],
		KeyTimeoutSecs:   wfCtx[KeyTimeoutSecs],
		KeyWorkflowStack: append(append([]string{}, stack...), a.Name),
	}
	for k, v := range a.Args {
		childCtx[k] = wfCtx.Substitute(fmt.Sprintf("%v", v))
	}

	runCtx, cancel := context.WithTimeout(ctx, DefaultSubWorkflowTimeout())
	defer cancel()

	runner := &Runner{Actions: actions}
	status, runErr := runner.Run(runCtx, childCtx)

	if runErr != nil {
		if abortErr, ok := runErr.(*AbortError); ok {
			setResult(wfCtx, false)
			return nil, abortErr
		}
		setResult(wfCtx, false)
		return nil, &ExecutionError{Action: a.Type(), Message: runErr.Error()}
	}

	switch status {
	case RunCompleted:
		setResult(wfCtx, true)
		return childCtx.WithoutReserved(), nil
	default:
		setResult(wfCtx, false)
		return nil, &ExecutionError{Action: a.Type(), Message: fmt.Sprintf("sub-workflow %s did not complete: %s", a.Name, status)}
	}
}
