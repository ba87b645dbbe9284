package core

import (
	"time"

	"github.com/google/uuid"
)

// EventKind discriminates the tagged Event union.
type EventKind string

// Event kinds emitted during a turn, in the order they can appear.
const (
	EventUserMessage  EventKind = "user_message"
	EventAgentUpdated EventKind = "agent_updated"
	EventContentDelta EventKind = "content_delta"
	EventToolCall     EventKind = "tool_call"
	EventToolResult   EventKind = "tool_result"
	EventError        EventKind = "error"
	EventDone         EventKind = "done"
)

// ErrorKind categorizes error events. Validation and not-found errors are
// absorbed into tool results and never surface as error events; the kinds
// below all terminate the turn.
type ErrorKind string

const (
	// ErrorKindUnknownTool signals a tool call naming a tool that is not in
	// the current agent's permitted set.
	ErrorKindUnknownTool ErrorKind = "unknown_tool"
	// ErrorKindUnknownAgent signals a handoff naming an unregistered agent.
	ErrorKindUnknownAgent ErrorKind = "unknown_agent"
	// ErrorKindProvider signals a transport or auth failure from the
	// completion backend.
	ErrorKindProvider ErrorKind = "provider_error"
	// ErrorKindIterationLimit signals the loop safety valve fired.
	ErrorKindIterationLimit ErrorKind = "iteration_limit_exceeded"
)

// Event is the unit of communication between the orchestrator and its
// caller. After emission it must be treated as immutable. Exactly one
// EventDone terminates every turn; all other fields are kind-specific.
type Event struct {
	ID        string         `json:"id"`
	Kind      EventKind      `json:"kind"`
	Agent     string         `json:"agent,omitempty"`
	Content   string         `json:"content,omitempty"`
	Message   string         `json:"message,omitempty"`
	Tool      string         `json:"tool,omitempty"`
	Arguments map[string]any `json:"arguments,omitempty"`
	Result    any            `json:"result,omitempty"`
	ErrorKind ErrorKind      `json:"error_kind,omitempty"`
	Error     string         `json:"error,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

func newEvent(kind EventKind, agent string) Event {
	return Event{
		ID:        NewID(),
		Kind:      kind,
		Agent:     agent,
		Timestamp: time.Now().UTC(),
	}
}

// NewUserMessageEvent records the user message that seeded the turn. It is
// the only event kind not attributed to an agent.
func NewUserMessageEvent(content string) Event {
	e := newEvent(EventUserMessage, "")
	e.Content = content
	return e
}

// NewAgentUpdatedEvent records a completed handoff to the named agent.
func NewAgentUpdatedEvent(agent, message string) Event {
	e := newEvent(EventAgentUpdated, agent)
	e.Message = message
	return e
}

// NewContentDeltaEvent carries one incremental text fragment from the
// current agent.
func NewContentDeltaEvent(agent, delta string) Event {
	e := newEvent(EventContentDelta, agent)
	e.Content = delta
	return e
}

// NewToolCallEvent records the current agent requesting a tool invocation.
func NewToolCallEvent(agent, tool string, args map[string]any) Event {
	e := newEvent(EventToolCall, agent)
	e.Tool = tool
	e.Arguments = args
	return e
}

// NewToolResultEvent records the outcome of a tool invocation.
func NewToolResultEvent(agent, tool string, result any) Event {
	e := newEvent(EventToolResult, agent)
	e.Tool = tool
	e.Result = result
	return e
}

// NewErrorEvent records a turn-terminating fault.
func NewErrorEvent(agent string, kind ErrorKind, message string) Event {
	e := newEvent(EventError, agent)
	e.ErrorKind = kind
	e.Error = message
	return e
}

// NewDoneEvent closes the turn, attributed to the final current agent.
func NewDoneEvent(agent string) Event {
	return newEvent(EventDone, agent)
}

// NewID generates a unique identifier for events, tool calls and sessions.
func NewID() string { return uuid.NewString() }
