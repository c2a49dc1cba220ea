package terminal

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// ProtocolError signals a capability-gate failure: the client never
// advertised the "terminal" capability. Never retried.
type ProtocolError struct{ Op string }

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("client did not advertise terminal capability for %s", e.Op)
}

// RateLimitError signals a rate-limit violation. Retryable once the
// window clears.
type RateLimitError struct {
	Op string
	Key string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded for %s (key=%s)", e.Op, e.Key)
}

// Operation names and their rate-limit cost, keyed by (clientOrSession,
// op).
const (
	OpCreate  = "terminal_create"
	OpOutput  = "terminal_output"
	OpWait    = "terminal_wait"
	OpKill    = "terminal_kill"
	OpRelease = "terminal_release"
)

var opCost = map[string]int{
	OpCreate:  1,
	OpOutput:  1,
	OpWait:    1,
	OpKill:    1,
	OpRelease: 1,
}

// RateLimiter is a simple fixed-window counter keyed by (clientID, op):
// each key's count resets once its window has elapsed.
type RateLimiter struct {
	mu       sync.Mutex
	limit    int
	window   time.Duration
	counters map[string]*bucket
}

type bucket struct {
	count     int
	windowEnd time.Time
}

// NewRateLimiter builds a limiter allowing limit cost-units per window,
// per key.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{limit: limit, window: window, counters: make(map[string]*bucket)}
}

// Allow consumes cost units from the (key, op) bucket, returning false
// if doing so would exceed the configured limit.
func (r *RateLimiter) Allow(key, op string) bool {
	cost := opCost[op]
	if cost == 0 {
		cost = 1
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	k := key + "|" + op
	now := time.Now()
	b, ok := r.counters[k]
	if !ok || now.After(b.windowEnd) {
		b = &bucket{windowEnd: now.Add(r.window)}
		r.counters[k] = b
	}
	if b.count+cost > r.limit {
		return false
	}
	b.count += cost
	return true
}

// Manager is the registry of terminal sessions: a capability gate, a
// rate limiter, and the session map itself.
type Manager struct {
	mu        sync.RWMutex
	terminals map[string]*Terminal

	limiter *RateLimiter

	// capabilities maps client/session id -> whether it advertised the
	// "terminal" capability.
	capMu        sync.RWMutex
	capabilities map[string]bool
}

// NewManager constructs an empty Manager with the given rate limiter.
// A nil limiter disables rate limiting.
func NewManager(limiter *RateLimiter) *Manager {
	if limiter == nil {
		limiter = NewRateLimiter(1<<30, time.Hour)
	}
	return &Manager{
		terminals:    make(map[string]*Terminal),
		limiter:      limiter,
		capabilities: make(map[string]bool),
	}
}

// GrantCapability records that sessionID has advertised the terminal
// capability.
func (m *Manager) GrantCapability(sessionID string) {
	m.capMu.Lock()
	defer m.capMu.Unlock()
	m.capabilities[sessionID] = true
}

func (m *Manager) checkGate(sessionID, op string) error {
	m.capMu.RLock()
	ok := m.capabilities[sessionID]
	m.capMu.RUnlock()
	if !ok {
		return &ProtocolError{Op: op}
	}
	if !m.limiter.Allow(sessionID, op) {
		return &RateLimitError{Op: op, Key: sessionID}
	}
	return nil
}

// Create validates inputs, spawns the process, and registers the new
// terminal under a fresh id.
func (m *Manager) Create(ctx context.Context, sessionID, command string, args []string, env map[string]string, cwd string, outputByteLimit int) (string, error) {
	if err := m.checkGate(sessionID, OpCreate); err != nil {
		return "", err
	}
	if strings.TrimSpace(sessionID) == "" {
		return "", fmt.Errorf("session_id must not be empty")
	}
	if cwd != "" && !strings.HasPrefix(cwd, "/") && !isWindowsAbs(cwd) {
		return "", fmt.Errorf("Working directory must be absolute path: %s", cwd)
	}
	for name := range env {
		if strings.TrimSpace(name) == "" {
			return "", fmt.Errorf("Environment variable name cannot be empty")
		}
	}

	term := New(sessionID, command, args, env, cwd, outputByteLimit, 0)

	m.mu.Lock()
	m.terminals[term.ID] = term
	m.mu.Unlock()

	if err := term.Spawn(ctx); err != nil {
		m.mu.Lock()
		delete(m.terminals, term.ID)
		m.mu.Unlock()
		return "", err
	}

	return term.ID, nil
}

func isWindowsAbs(p string) bool {
	return len(p) >= 3 && p[1] == ':' && (p[2] == '\\' || p[2] == '/')
}

func (m *Manager) get(terminalID string) (*Terminal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.terminals[terminalID]
	if !ok {
		return nil, &NotFoundError{TerminalID: terminalID}
	}
	return t, nil
}

// Output returns the buffered output for terminalID; permitted even
// after release.
func (m *Manager) Output(ctx context.Context, sessionID, terminalID string) (string, bool, *ExitStatus, error) {
	if err := m.checkGate(sessionID, OpOutput); err != nil {
		return "", false, nil, err
	}
	t, err := m.get(terminalID)
	if err != nil {
		return "", false, nil, err
	}
	out, truncated, status := t.Output()
	return out, truncated, status, nil
}

// WaitForExit blocks for terminalID's process to exit. Not permitted on
// released terminals.
func (m *Manager) WaitForExit(ctx context.Context, sessionID, terminalID string) (ExitStatus, error) {
	if err := m.checkGate(sessionID, OpWait); err != nil {
		return ExitStatus{}, err
	}
	t, err := m.get(terminalID)
	if err != nil {
		return ExitStatus{}, err
	}
	if t.StateValue() == StateReleased {
		return ExitStatus{}, &ReleasedError{TerminalID: terminalID}
	}
	return t.WaitForExit(ctx)
}

// Kill terminates terminalID's process. Not permitted on released
// terminals.
func (m *Manager) Kill(ctx context.Context, sessionID, terminalID string) error {
	if err := m.checkGate(sessionID, OpKill); err != nil {
		return err
	}
	t, err := m.get(terminalID)
	if err != nil {
		return err
	}
	if t.StateValue() == StateReleased {
		return &ReleasedError{TerminalID: terminalID}
	}
	return t.Kill(ctx)
}

// Release transitions terminalID to Released, leaving it in the
// registry (queryable via Output) but refusing further mutating ops.
func (m *Manager) Release(ctx context.Context, sessionID, terminalID string) error {
	if err := m.checkGate(sessionID, OpRelease); err != nil {
		return err
	}
	t, err := m.get(terminalID)
	if err != nil {
		return err
	}
	return t.Release(ctx)
}

// CleanupSessionTerminals releases and removes every terminal owned by
// sessionID, returning the count removed.
func (m *Manager) CleanupSessionTerminals(ctx context.Context, sessionID string) (int, error) {
	m.mu.RLock()
	var owned []*Terminal
	for _, t := range m.terminals {
		if t.SessionID == sessionID {
			owned = append(owned, t)
		}
	}
	m.mu.RUnlock()

	for _, t := range owned {
		_ = t.Release(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for id, t := range m.terminals {
		if t.SessionID == sessionID {
			delete(m.terminals, id)
			count++
		}
	}
	return count, nil
}
