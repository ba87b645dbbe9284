package core

import "encoding/json"

// Conversation roles used in turn history.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// ToolCall is a fully-materialized function call request surfaced by a model
// provider. Unified across vendors so downstream logic does not need
// per-provider branching.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"` // JSON-encoded argument payload
}

// ArgumentMap decodes the JSON argument payload. An empty payload decodes to
// an empty map so tools with no parameters validate cleanly.
func (tc ToolCall) ArgumentMap() (map[string]any, error) {
	if tc.Arguments == "" {
		return map[string]any{}, nil
	}
	var args map[string]any
	if err := json.Unmarshal([]byte(tc.Arguments), &args); err != nil {
		return nil, err
	}
	return args, nil
}

// Message is one role-tagged entry in a turn's conversation history.
// Assistant messages may carry tool calls; tool messages answer exactly one
// prior call identified by ToolCallID.
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	Agent      string     `json:"agent,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// NewUserMessage creates a user-authored history entry.
func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// NewAssistantMessage creates an assistant history entry attributed to an
// agent, optionally carrying the tool calls it requested.
func NewAssistantMessage(agent, content string, toolCalls []ToolCall) Message {
	return Message{Role: RoleAssistant, Agent: agent, Content: content, ToolCalls: toolCalls}
}

// NewToolResultMessage answers a prior tool call with a JSON-encoded result
// payload. Providers require every emitted call ID to be answered before the
// next completion request.
func NewToolResultMessage(callID string, result any) Message {
	payload, err := json.Marshal(result)
	if err != nil {
		payload = []byte(`{"success":false,"error":"unserializable tool result"}`)
	}
	return Message{Role: RoleTool, Content: string(payload), ToolCallID: callID}
}
