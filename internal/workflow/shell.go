package workflow

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"mvdan.cc/sh/v3/syntax"
)

// Shell action timing bounds (spec §4.9 point 5).
const (
	ShellDefaultTimeout = 300 * time.Second
	ShellMaxTimeout     = 3600 * time.Second
)

var envVarNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// IsValidEnvVarName reports whether name may be used as a shell
// environment variable name.
func IsValidEnvVarName(name string) bool {
	return name != "" && envVarNamePattern.MatchString(name)
}

// DenyPattern is one table-driven entry in the shell security
// validator's deny list (spec §9 Open Question decision).
type DenyPattern struct {
	Description string
	Match       func(command string) bool
}

func literalContains(substr string) func(string) bool {
	return func(command string) bool { return strings.Contains(command, substr) }
}

// DefaultDenyPatterns is the table-driven deny list for obviously
// destructive shell commands. Extend this slice rather than adding new
// branching logic elsewhere.
var DefaultDenyPatterns = []DenyPattern{
	{"recursive force-remove of root", literalContains("rm -rf /")},
	{"fork bomb", literalContains(":(){:|:&};:")},
	{"raw disk device write", regexp.MustCompile(`\bdd\s+.*of=/dev/`).MatchString},
	{"filesystem format", regexp.MustCompile(`\bmkfs(\.\w+)?\b`).MatchString},
	{"direct disk overwrite", regexp.MustCompile(`>\s*/dev/sd[a-z]`).MatchString},
}

// ValidateCommand rejects an empty (after trim) command or one
// matching any DefaultDenyPatterns entry. The patterns are matched
// against the literal command text. After they pass, the command is
// also run through the bash syntax parser, but the parse result is
// discarded and a parse failure is not a rejection.
func ValidateCommand(command string) error {
	trimmed := strings.TrimSpace(command)
	if trimmed == "" {
		return fmt.Errorf("command must not be empty")
	}
	for _, p := range DefaultDenyPatterns {
		if p.Match(trimmed) {
			return fmt.Errorf("command denied by security policy: %s", p.Description)
		}
	}
	// Parsing is advisory: an unparseable command is still passed
	// through to validation of its literal text above.
	_, _ = syntax.NewParser().Parse(strings.NewReader(trimmed), "")
	return nil
}

// ValidateWorkingDirectory rejects any path containing a parent-
// directory component.
func ValidateWorkingDirectory(cwd string) error {
	if cwd == "" {
		return nil
	}
	for _, part := range strings.Split(filepathSplit(cwd), "/") {
		if part == ".." {
			return fmt.Errorf("working directory must not contain parent-directory components: %s", cwd)
		}
	}
	return nil
}

func filepathSplit(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

// ValidateTimeout applies the default when d is zero, rejects d <= 0
// and d > ShellMaxTimeout.
func ValidateTimeout(d time.Duration) (time.Duration, error) {
	if d == 0 {
		return ShellDefaultTimeout, nil
	}
	if d <= 0 {
		return 0, fmt.Errorf("timeout must be > 0")
	}
	if d > ShellMaxTimeout {
		return 0, fmt.Errorf("timeout must be <= %s", ShellMaxTimeout)
	}
	return d, nil
}

// ShellAction executes a validated command via the platform shell
// interpreter, capturing stdout/stderr and populating context result
// variables.
type ShellAction struct {
	Command   string
	Cwd       string
	Env       map[string]string
	Timeout   time.Duration
	ResultVar string
}

func (a *ShellAction) Type() string        { return "shell" }
func (a *ShellAction) Description() string { return fmt.Sprintf("Shell %q", a.Command) }

func (a *ShellAction) Execute(ctx context.Context, wfCtx Context) (any, error) {
	command := wfCtx.Substitute(a.Command)
	cwd := wfCtx.Substitute(a.Cwd)

	env := make(map[string]string, len(a.Env))
	for k, v := range a.Env {
		env[wfCtx.Substitute(k)] = wfCtx.Substitute(v)
	}

	if err := ValidateCommand(command); err != nil {
		setResult(wfCtx, false)
		return nil, &ExecutionError{Action: a.Type(), Message: err.Error()}
	}
	for name := range env {
		if !IsValidEnvVarName(name) {
			setResult(wfCtx, false)
			return nil, &ExecutionError{Action: a.Type(), Message: fmt.Sprintf("invalid environment variable name: %q", name)}
		}
	}
	if err := ValidateWorkingDirectory(cwd); err != nil {
		setResult(wfCtx, false)
		return nil, &ExecutionError{Action: a.Type(), Message: err.Error()}
	}
	timeout, err := ValidateTimeout(a.Timeout)
	if err != nil {
		setResult(wfCtx, false)
		return nil, &ExecutionError{Action: a.Type(), Message: err.Error()}
	}

	logCommandStart(cwd, env)
	start := time.Now()

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	shell, flag := shellInvocation()
	cmd := exec.CommandContext(runCtx, shell, flag, command)
	cmd.Dir = cwd
	cmd.Env = envSlice(env)
	setProcAttrs(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	duration := time.Since(start)
	timedOut := runCtx.Err() == context.DeadlineExceeded

	var exitCode int
	var success bool
	stdoutStr := stdout.String()
	stderrStr := stderr.String()

	switch {
	case timedOut:
		killProcessGroup(cmd)
		exitCode = -1
		stderrStr = "Command timed out"
		success = false
	case runErr != nil:
		if exitErr, ok := runErr.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			exitCode = -1
		}
		success = false
	default:
		exitCode = 0
		success = true
	}

	wfCtx[KeySuccess] = success
	wfCtx[KeyFailure] = !success
	wfCtx[KeyExitCode] = exitCode
	wfCtx[KeyStdout] = stdoutStr
	wfCtx[KeyStderr] = stderrStr
	wfCtx[KeyDurationMs] = duration.Milliseconds()

	if success && a.ResultVar != "" {
		wfCtx[a.ResultVar] = strings.TrimSpace(stdoutStr)
	}

	logCommandEnd(cwd, exitCode, duration)
	setResult(wfCtx, success)

	return success, nil
}

func logCommandStart(cwd string, env map[string]string) {
	names := make([]string, 0, len(env))
	for k := range env {
		names = append(names, k)
	}
	log.Info().Str("cwd", cwd).Strs("env_names", names).Msg("shell action starting")
}

func logCommandEnd(cwd string, exitCode int, duration time.Duration) {
	log.Info().Str("cwd", cwd).Int("exit_code", exitCode).Dur("duration", duration).Msg("shell action completed")
}

func shellInvocation() (string, string) {
	if runtime.GOOS == "windows" {
		return "cmd", "/C"
	}
	return "/bin/sh", "-c"
}

func envSlice(env map[string]string) []string {
	if len(env) == 0 {
		return nil
	}
	out := make([]string, 0, len(env))
	for k, v := range env {
		out = append(out, k+"="+v)
	}
	return out
}

func setProcAttrs(cmd *exec.Cmd) {
	if runtime.GOOS == "windows" {
		return
	}
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

func killProcessGroup(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	if runtime.GOOS == "windows" {
		_ = cmd.Process.Kill()
		return
	}
	_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
}
