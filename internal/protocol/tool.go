package protocol

import (
	"encoding/json"
	"regexp"
	"strings"
)

// ToolKind is the inferred category of a tool call, used by clients to
// pick an icon/verb without knowing every concrete tool name.
type ToolKind string

const (
	KindRead    ToolKind = "read"
	KindEdit    ToolKind = "edit"
	KindDelete  ToolKind = "delete"
	KindMove    ToolKind = "move"
	KindSearch  ToolKind = "search"
	KindExecute ToolKind = "execute"
	KindFetch   ToolKind = "fetch"
	KindThink   ToolKind = "think"
	KindOther   ToolKind = "other"
)

var wordSplitter = regexp.MustCompile(`[^a-zA-Z0-9]+`)

func hasWholeWord(name, word string) bool {
	for _, part := range wordSplitter.Split(name, -1) {
		if part == word {
			return true
		}
	}
	return false
}

// priority-ordered keyword sets, checked in this exact order:
// execute > think > search > delete > move > edit > fetch > read > other.
var (
	executeKeywords = []string{"execute", "run", "shell", "bash", "terminal"}
	thinkKeywords   = []string{"think"}
	searchKeywords  = []string{"search", "grep", "find", "glob"}
	deleteKeywords  = []string{"delete", "remove"}
	moveKeywords    = []string{"move", "rename", "mv"}
	editKeywords    = []string{"edit", "write", "create", "update", "modify", "patch"}
	fetchKeywords   = []string{"fetch", "http", "web", "url"}
	readKeywords    = []string{"read", "get", "list", "show", "view", "load"}
)

func containsAny(lower string, words []string) bool {
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// InferToolKind classifies a tool name into one of the ToolKind
// buckets via case-insensitive, priority-ordered keyword scanning.
// "rm" only matches as a whole word so names like "swissarmyhammer" or
// "arm" never spuriously classify as Delete.
func InferToolKind(name string) ToolKind {
	lower := strings.ToLower(name)

	if containsAny(lower, executeKeywords) {
		return KindExecute
	}
	if containsAny(lower, thinkKeywords) {
		return KindThink
	}
	if containsAny(lower, searchKeywords) {
		return KindSearch
	}
	if containsAny(lower, deleteKeywords) || hasWholeWord(lower, "rm") {
		return KindDelete
	}
	if containsAny(lower, moveKeywords) {
		return KindMove
	}
	if containsAny(lower, editKeywords) {
		return KindEdit
	}
	if containsAny(lower, fetchKeywords) {
		return KindFetch
	}
	if containsAny(lower, readKeywords) {
		return KindRead
	}
	return KindOther
}

// ToolDefinition describes a known tool, attached to wire tool calls as
// metadata when available.
type ToolDefinition struct {
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	ParametersSchema json.RawMessage `json:"parameters_schema"`
	Server          string          `json:"server"`
}

// ToolCall is an internal tool invocation request.
type ToolCall struct {
	ID        string
	Name      string
	Arguments json.RawMessage
}

// ToolResult is the outcome of executing a ToolCall.
type ToolResult struct {
	CallID string
	Result json.RawMessage
	Error  string
}

// WireToolCall is the wire-side shape of a tool call.
type WireToolCall struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	Kind           ToolKind        `json:"kind"`
	RawInput       json.RawMessage `json:"rawInput"`
	Meta           map[string]any  `json:"meta,omitempty"`
}

// ToolCallToWire builds the wire representation of call, optionally
// attaching def as tool_definition metadata.
func ToolCallToWire(call ToolCall, def *ToolDefinition) WireToolCall {
	title := call.Name
	if def != nil && def.Description != "" {
		title = call.Name + ": " + def.Description
	}

	wc := WireToolCall{
		ID:       call.ID,
		Title:    title,
		Kind:     InferToolKind(call.Name),
		RawInput: call.Arguments,
	}
	if def != nil {
		wc.Meta = map[string]any{"tool_definition": def}
	}
	return wc
}

// ToolUpdateStatus mirrors the wire tool_call_update status field.
type ToolUpdateStatus string

const (
	StatusCompleted ToolUpdateStatus = "completed"
	StatusFailed    ToolUpdateStatus = "failed"
)

// WireToolUpdate is the wire-side shape of a tool result.
type WireToolUpdate struct {
	CallID    string           `json:"callId"`
	Status    ToolUpdateStatus `json:"status"`
	RawOutput json.RawMessage  `json:"rawOutput,omitempty"`
	Content   []WireContent    `json:"content,omitempty"`
}

// ToolResultToWire converts a ToolResult to its wire update: on success
// status is Completed with raw_output set; on error status is Failed
// with a single Text content block. Never both.
func ToolResultToWire(r ToolResult) WireToolUpdate {
	if r.Error != "" {
		return WireToolUpdate{
			CallID:  r.CallID,
			Status:  StatusFailed,
			Content: []WireContent{{Kind: WireText, Text: r.Error}},
		}
	}
	return WireToolUpdate{
		CallID:    r.CallID,
		Status:    StatusCompleted,
		RawOutput: r.Result,
	}
}
