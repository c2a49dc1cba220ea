package agentexec

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
)

// EinoEngine is the default LLMEngine, backed directly by an eino
// ToolCallingChatModel (as constructed by internal/provider for a
// configured provider/model pair). It keeps per-session message
// history in memory; tool execution is delegated to the MCP server
// started by the Executor, not performed here.
type EinoEngine struct {
	chatModel model.ToolCallingChatModel

	sessions map[string]*Session
}

// NewEinoEngine wraps an already-constructed eino chat model.
func NewEinoEngine(chatModel model.ToolCallingChatModel) *EinoEngine {
	return &EinoEngine{
		chatModel: chatModel,
		sessions:  make(map[string]*Session),
	}
}

// OpenSession implements LLMEngine.
func (e *EinoEngine) OpenSession(ctx context.Context) (*Session, error) {
	s := &Session{ID: NewSessionID()}
	e.sessions[s.ID] = s
	return s, nil
}

// DiscoverTools implements LLMEngine. It only checks that an MCP
// server URL was supplied; it does not contact the server and binds no
// tools to the chat model.
func (e *EinoEngine) DiscoverTools(ctx context.Context, session *Session, mcpURL string) error {
	if mcpURL == "" {
		return fmt.Errorf("no MCP server URL available for tool discovery")
	}
	return nil
}

// Generate implements LLMEngine.
func (e *EinoEngine) Generate(ctx context.Context, session *Session) (GenerationResult, error) {
	msg, err := e.chatModel.Generate(ctx, session.messages)
	if err != nil {
		return GenerationResult{}, err
	}

	tokens := 0
	if msg.ResponseMeta != nil && msg.ResponseMeta.Usage != nil {
		tokens = int(msg.ResponseMeta.Usage.TotalTokens)
	}

	session.messages = append(session.messages, msg)
	return GenerationResult{Text: msg.Content, TokensGenerated: tokens}, nil
}

// Health implements LLMEngine.
func (e *EinoEngine) Health(ctx context.Context) (int, bool, error) {
	return len(e.sessions), e.chatModel != nil, nil
}

// Shutdown implements LLMEngine.
func (e *EinoEngine) Shutdown(ctx context.Context) error {
	e.sessions = make(map[string]*Session)
	return nil
}

var _ LLMEngine = (*EinoEngine)(nil)
