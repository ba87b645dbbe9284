package server

import (
	"encoding/json"
	"fmt"

	"github.com/hupe1980/smoothoperator/core"
)

// Wire event names. The UI listens for these; content_delta and
// agent_updated are renamed on the wire for historical reasons.
const (
	wireUserMessage  = "user_message"
	wireDelta        = "delta"
	wireAgentHandoff = "agent_handoff"
	wireToolCall     = "tool_call"
	wireToolResult   = "tool_result"
	wireError        = "error"
	wireDone         = "done"
)

// EncodeSSE serializes one orchestrator event into a server-sent-events
// frame: an event name line, a data line with the JSON payload, and a blank
// line. Events map onto the wire protocol one to one, preserving order.
func EncodeSSE(ev core.Event) ([]byte, error) {
	var name string
	var payload any

	switch ev.Kind {
	case core.EventUserMessage:
		name = wireUserMessage
		payload = map[string]any{"content": ev.Content}
	case core.EventContentDelta:
		name = wireDelta
		payload = map[string]any{"agent": ev.Agent, "content": ev.Content}
	case core.EventAgentUpdated:
		name = wireAgentHandoff
		payload = map[string]any{"agent": ev.Agent, "message": ev.Message}
	case core.EventToolCall:
		name = wireToolCall
		payload = map[string]any{"agent": ev.Agent, "tool": ev.Tool, "arguments": ev.Arguments}
	case core.EventToolResult:
		name = wireToolResult
		payload = map[string]any{"agent": ev.Agent, "tool": ev.Tool, "result": ev.Result}
	case core.EventError:
		name = wireError
		payload = map[string]any{"error": ev.Error, "kind": string(ev.ErrorKind)}
	case core.EventDone:
		name = wireDone
		payload = map[string]any{"agent": ev.Agent}
	default:
		return nil, fmt.Errorf("unknown event kind %q", ev.Kind)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode sse payload: %w", err)
	}
	return []byte(fmt.Sprintf("event: %s\ndata: %s\n\n", name, data)), nil
}
