package workflow

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// PromptExecutor is the collaborator a PromptAction delegates to: the
// agent executor (spec §4.12), reached through this narrow interface so
// the workflow package does not depend on the LLM stack directly.
type PromptExecutor interface {
	ExecutePrompt(ctx context.Context, system, user string, wfCtx Context, timeout time.Duration) (text string, metadata map[string]any, err error)
}

// PromptLibrary renders a named prompt template with arguments and
// environment variables into a (system, user) pair.
type PromptLibrary interface {
	Render(name string, args map[string]string, env map[string]string) (system, user string, err error)
}

var argKeyPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidateArgKeys returns an error if any key fails the
// `[A-Za-z0-9_-]+` grammar required by spec §4.6.
func ValidateArgKeys(args map[string]string) error {
	for k := range args {
		if k == "" || !argKeyPattern.MatchString(k) {
			return fmt.Errorf("invalid argument key: %q", k)
		}
	}
	return nil
}

// PromptAction executes a named prompt through the agent executor.
type PromptAction struct {
	Name      string
	Args      map[string]string
	ResultVar string

	Library  PromptLibrary
	Executor PromptExecutor
	Env      map[string]string
}

func (a *PromptAction) Type() string { return "prompt" }
func (a *PromptAction) Description() string {
	return fmt.Sprintf(`Execute prompt "%s"`, a.Name)
}

func (a *PromptAction) Execute(ctx context.Context, wfCtx Context) (any, error) {
	substituted := make(map[string]string, len(a.Args))
	for k, v := range a.Args {
		substituted[k] = wfCtx.Substitute(v)
	}
	if err := ValidateArgKeys(substituted); err != nil {
		setResult(wfCtx, false)
		return nil, &ExecutionError{Action: a.Type(), Message: err.Error()}
	}

	system, user, err := a.Library.Render(a.Name, substituted, a.Env)
	if err != nil {
		setResult(wfCtx, false)
		return nil, &ExecutionError{Action: a.Type(), Message: err.Error()}
	}

	timeout := promptTimeout(wfCtx)
	text, metadata, err := a.Executor.ExecutePrompt(ctx, system, user, wfCtx, timeout)
	if err != nil {
		setResult(wfCtx, false)
		return nil, &ExecutionError{Action: a.Type(), Message: err.Error()}
	}

	wfCtx[KeyClaudeResponse] = text
	if a.ResultVar != "" {
		wfCtx[a.ResultVar] = text
	}

	if !isQuiet(wfCtx) {
		displayAsYAML(text, metadata)
	}

	setResult(wfCtx, true)
	return text, nil
}

func isQuiet(wfCtx Context) bool {
	v, ok := wfCtx[KeyQuiet].(bool)
	return ok && v
}

func promptTimeout(wfCtx Context) time.Duration {
	if v, ok := wfCtx[KeyTimeoutSecs]; ok {
		if secs, ok := toFloat(v); ok {
			return time.Duration(secs * float64(time.Second))
		}
	}
	return DefaultPromptTimeout()
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	default:
		return 0, false
	}
}

// displayAsYAML renders the prompt response as structured YAML for the
// user, per spec §4.7 point 4.
func displayAsYAML(text string, metadata map[string]any) {
	doc := map[string]any{"response": text}
	if len(metadata) > 0 {
		doc["metadata"] = metadata
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		fmt.Println(text)
		return
	}
	fmt.Println(string(out))
}

// WaitUnit is one of the units accepted by the `Wait <N> <unit>`
// grammar (spec §9 Open Question: all four implemented).
type WaitUnit string

const (
	WaitMilliseconds WaitUnit = "ms"
	WaitSeconds      WaitUnit = "seconds"
	WaitMinutes      WaitUnit = "minutes"
	WaitHours        WaitUnit = "hours"
)

func (u WaitUnit) Duration(n float64) time.Duration {
	switch u {
	case WaitMilliseconds:
		return time.Duration(n * float64(time.Millisecond))
	case WaitMinutes:
		return time.Duration(n * float64(time.Minute))
	case WaitHours:
		return time.Duration(n * float64(time.Hour))
	default:
		return time.Duration(n * float64(time.Second))
	}
}

// WaitAction pauses for a fixed duration, or waits for user input.
type WaitAction struct {
	Duration     time.Duration
	ForUser      bool
	UserInputFn  func(ctx context.Context, timeout time.Duration) (string, error)
	InputTimeout time.Duration
}

func (a *WaitAction) Type() string { return "wait" }
func (a *WaitAction) Description() string {
	if a.ForUser {
		return "Wait for user input"
	}
	return fmt.Sprintf("Wait %s", a.Duration)
}

func (a *WaitAction) Execute(ctx context.Context, wfCtx Context) (any, error) {
	if a.ForUser {
		timeout := a.InputTimeout
		if timeout <= 0 {
			timeout = DefaultUserInputTimeout()
		}
		if a.UserInputFn == nil {
			setResult(wfCtx, false)
			return nil, &ExecutionError{Action: a.Type(), Message: "no user input channel available"}
		}
		text, err := a.UserInputFn(ctx, timeout)
		if err != nil {
			setResult(wfCtx, false)
			return nil, &ExecutionError{Action: a.Type(), Message: err.Error()}
		}
		setResult(wfCtx, true)
		return text, nil
	}

	timer := time.NewTimer(a.Duration)
	defer timer.Stop()
	select {
	case <-timer.C:
		setResult(wfCtx, true)
		return nil, nil
	case <-ctx.Done():
		setResult(wfCtx, false)
		return nil, ctx.Err()
	}
}

// LogLevel is the severity of a LogAction.
type LogLevel string

const (
	LogInfo    LogLevel = "info"
	LogWarning LogLevel = "warning"
	LogError   LogLevel = "error"
)

// LogAction renders a liquid/${var} templated message at a given level.
type LogAction struct {
	Level   LogLevel
	Message string
	Sink    func(level LogLevel, message string)
}

func (a *LogAction) Type() string          { return "log" }
func (a *LogAction) Description() string   { return fmt.Sprintf("Log %s", a.Message) }
func (a *LogAction) Execute(ctx context.Context, wfCtx Context) (any, error) {
	rendered := wfCtx.RenderLiquid(a.Message)
	if a.Sink != nil {
		a.Sink(a.Level, rendered)
	} else {
		fmt.Println(rendered)
	}
	setResult(wfCtx, true)
	return rendered, nil
}

// SetAction assigns a context variable.
type SetAction struct {
	Var   string
	Value string
}

func (a *SetAction) Type() string        { return "set" }
func (a *SetAction) Description() string { return fmt.Sprintf("Set %s", a.Var) }
func (a *SetAction) Execute(ctx context.Context, wfCtx Context) (any, error) {
	rendered := wfCtx.Substitute(a.Value)
	wfCtx[a.Var] = rendered
	setResult(wfCtx, true)
	return rendered, nil
}

// AbortAction sets the abort signal and short-circuits the workflow.
type AbortAction struct {
	Message string
}

func (a *AbortAction) Type() string        { return "abort" }
func (a *AbortAction) Description() string { return fmt.Sprintf("Abort %s", a.Message) }
func (a *AbortAction) Execute(ctx context.Context, wfCtx Context) (any, error) {
	rendered := wfCtx.Substitute(a.Message)
	wfCtx[KeyAbortRequested] = true
	setResult(wfCtx, false)
	return nil, &AbortError{Message: rendered}
}
