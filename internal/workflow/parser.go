package workflow

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ParseOptions carries the collaborators concrete actions need once
// parsed (prompt library/executor, sub-workflow loader, log sink, user
// input function) so the parser can construct ready-to-run Actions.
type ParseOptions struct {
	Library     PromptLibrary
	Executor    PromptExecutor
	Env         map[string]string
	Loader      WorkflowLoader
	LogSink     func(level LogLevel, message string)
	UserInputFn func(ctx context.Context, timeout time.Duration) (string, error)
}

var (
	promptPattern = regexp.MustCompile(`^Execute prompt "([^"]*)"(?:\s+with\s+(.*))?$`)
	waitNPattern  = regexp.MustCompile(`^Wait (\d+(?:\.\d+)?) (ms|seconds|minutes|hours)$`)
	waitUserRe    = regexp.MustCompile(`^Wait for user\b.*$`)
	logPattern    = regexp.MustCompile(`^Log(?: (warning|error))? "([^"]*)"$`)
	setPattern    = regexp.MustCompile(`^Set ([A-Za-z0-9_-]+)="([^"]*)"$`)
	subflowPattern = regexp.MustCompile(`^Run workflow "([^"]*)"(?:\s+with\s+(.*))?$`)
	abortPattern  = regexp.MustCompile(`^Abort "([^"]*)"$`)
	shellPattern  = regexp.MustCompile(`^Shell "([^"]*)"(?:\s+with\s+timeout=(\d+))?(?:\s+result="([^"]*)")?$`)

	kvPattern = regexp.MustCompile(`(\w[\w-]*)="([^"]*)"`)
)

// parseKVArgs parses `k="v" k2="v2"` sequences, validating argument
// keys against `[A-Za-z0-9_-]+`.
func parseKVArgs(s string) (map[string]string, error) {
	args := make(map[string]string)
	if strings.TrimSpace(s) == "" {
		return args, nil
	}
	for _, m := range kvPattern.FindAllStringSubmatch(s, -1) {
		key, val := m[1], m[2]
		if !argKeyPattern.MatchString(key) {
			return nil, fmt.Errorf("invalid argument key: %q", key)
		}
		args[key] = val
	}
	return args, nil
}

// ParseAction parses a single-line description into a typed Action. ok
// is false (with a nil error) when nothing matches, letting the caller
// treat the text as inert rather than as a parse failure.
func ParseAction(description string, opts ParseOptions) (action Action, ok bool, err error) {
	line := strings.TrimSpace(description)

	if m := promptPattern.FindStringSubmatch(line); m != nil {
		args, err := parseKVArgs(m[2])
		if err != nil {
			return nil, false, err
		}
		return &PromptAction{Name: m[1], Args: args, Library: opts.Library, Executor: opts.Executor, Env: opts.Env}, true, nil
	}

	if m := waitNPattern.FindStringSubmatch(line); m != nil {
		n, _ := strconv.ParseFloat(m[1], 64)
		unit := WaitUnit(m[2])
		return &WaitAction{Duration: unit.Duration(n)}, true, nil
	}
	if waitUserRe.MatchString(line) {
		return &WaitAction{ForUser: true, UserInputFn: opts.UserInputFn}, true, nil
	}

	if m := logPattern.FindStringSubmatch(line); m != nil {
		level := LogInfo
		switch m[1] {
		case "warning":
			level = LogWarning
		case "error":
			level = LogError
		}
		return &LogAction{Level: level, Message: m[2], Sink: opts.LogSink}, true, nil
	}

	if m := setPattern.FindStringSubmatch(line); m != nil {
		return &SetAction{Var: m[1], Value: m[2]}, true, nil
	}

	if m := subflowPattern.FindStringSubmatch(line); m != nil {
		args, err := parseKVArgs(m[2])
		if err != nil {
			return nil, false, err
		}
		return &SubWorkflowAction{Name: m[1], Args: args, Loader: opts.Loader}, true, nil
	}

	if m := abortPattern.FindStringSubmatch(line); m != nil {
		return &AbortAction{Message: m[1]}, true, nil
	}

	if m := shellPattern.FindStringSubmatch(line); m != nil {
		var timeout float64
		if m[2] != "" {
			timeout, _ = strconv.ParseFloat(m[2], 64)
		}
		return &ShellAction{Command: m[1], Timeout: WaitSeconds.Duration(timeout), ResultVar: m[3]}, true, nil
	}

	return nil, false, nil
}
