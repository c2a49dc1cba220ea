// Package protocol translates between the client-agent wire protocol
// and the internal LLM message/tool model: content-block conversion,
// tool-call/result shaping, tool-kind inference, and the JSON-RPC error
// taxonomy.
package protocol

import (
	"encoding/json"
	"fmt"
	"time"
)

// Role identifies the speaker of an internal message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is the internal representation of one conversation turn.
type Message struct {
	Role       Role
	Content    string
	ToolCallID string
	ToolName   string
	Timestamp  time.Time
}

// WireContentKind distinguishes wire content-block variants.
type WireContentKind string

const (
	WireText         WireContentKind = "text"
	WireImage        WireContentKind = "image"
	WireAudio        WireContentKind = "audio"
	WireResourceLink WireContentKind = "resource_link"
	WireResource     WireContentKind = "resource"
)

// WireContent is one content block as carried on the wire.
type WireContent struct {
	Kind WireContentKind
	Text string
	// ResourceLink fields.
	ResourceName string
	ResourceURI  string
}

// UnsupportedContentError is returned for wire content variants that
// cannot be mapped to an internal message.
type UnsupportedContentError struct{ Kind WireContentKind }

func (e *UnsupportedContentError) Error() string {
	return fmt.Sprintf("unsupported content block: %s", e.Kind)
}

// ToInternal maps a single wire content block to an internal message.
// Text becomes a User message verbatim; ResourceLink becomes a User
// message with a bracketed description. Image, Audio, embedded
// Resource, and any unknown variant fail.
func ToInternal(c WireContent) (Message, error) {
	switch c.Kind {
	case WireText:
		return Message{Role: RoleUser, Content: c.Text, Timestamp: time.Now()}, nil
	case WireResourceLink:
		return Message{
			Role:      RoleUser,
			Content:   fmt.Sprintf("[Resource: %s (%s)]", c.ResourceName, c.ResourceURI),
			Timestamp: time.Now(),
		}, nil
	default:
		return Message{}, &UnsupportedContentError{Kind: c.Kind}
	}
}

// ToWire maps an internal message to a single Text wire content block.
// Roles are discarded; the wire layer tags messages separately.
func ToWire(m Message) WireContent {
	return WireContent{Kind: WireText, Text: m.Content}
}

// StreamChunk wraps one text block in an "agent message chunk"
// notification keyed by the wire session id.
type StreamChunk struct {
	WireSessionID string          `json:"sessionId"`
	Notification  string          `json:"notification"`
	Content       json.RawMessage `json:"content"`
}

// ToStreamChunk builds the notification envelope for a single streamed
// text fragment.
func ToStreamChunk(wireSessionID, text string) StreamChunk {
	content, _ := json.Marshal(WireContent{Kind: WireText, Text: text})
	return StreamChunk{
		WireSessionID: wireSessionID,
		Notification:  "agent_message_chunk",
		Content:       content,
	}
}
