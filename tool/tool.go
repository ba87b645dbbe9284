// Package tool implements the function calling subsystem that lets agents
// invoke structured capabilities with schema validated arguments and
// consistent error handling. It also defines the handoff pseudo-tools that
// name another agent as the transfer target instead of executing anything.
package tool

import (
	"context"
	"fmt"

	"github.com/hupe1980/smoothoperator/internal/util"
	"github.com/hupe1980/smoothoperator/logging"
	"github.com/hupe1980/smoothoperator/session"
)

// Tool is a named, schema-described operation an agent may call.
//
// Implementations should:
//   - Provide clear, descriptive names (snake_case recommended)
//   - Define proper JSON schema for parameters
//   - Confine side effects to the session the ToolContext is scoped to
//   - Be safe for concurrent use across sessions
type Tool interface {
	// Name returns the unique identifier for this tool.
	Name() string

	// Description is provided to the model to explain when to use the tool.
	Description() string

	// Parameters returns a JSON schema describing the expected arguments.
	Parameters() map[string]any

	// Call executes the tool with validated arguments. Side effects are
	// restricted to the session the context is scoped to.
	Call(toolCtx *ToolContext, args map[string]any) (any, error)
}

// ValidationError reports arguments that failed schema validation.
type ValidationError = util.ValidationError

// Error codes attached to ToolError for downstream categorization.
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeNotFound   = "NOT_FOUND"
	CodeExecution  = "EXECUTION_ERROR"
)

// ToolError represents a failure during tool execution. These are
// recoverable: the orchestrator feeds them back into the conversation so the
// agent can react.
type ToolError struct {
	Tool    string `json:"tool"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// NewToolError creates a ToolError with the specified details.
func NewToolError(tool, message, code string) *ToolError {
	return &ToolError{Tool: tool, Message: message, Code: code}
}

// ToolContext scopes one tool invocation to its session. It carries the
// note store handle owned by that session plus correlation identifiers for
// logging; tools must never reach outside it.
type ToolContext struct {
	ctx       context.Context
	sessionID string
	agent     string
	callID    string
	notes     *session.NoteStore
	logger    logging.Logger
}

// NewToolContext binds a tool invocation to a session's note store.
func NewToolContext(
	ctx context.Context,
	sessionID, agent, callID string,
	notes *session.NoteStore,
	logger logging.Logger,
) *ToolContext {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &ToolContext{
		ctx:       ctx,
		sessionID: sessionID,
		agent:     agent,
		callID:    callID,
		notes:     notes,
		logger:    logger,
	}
}

// Context returns the context associated with the tool invocation.
func (tc *ToolContext) Context() context.Context { return tc.ctx }

// SessionID returns the owning session's id.
func (tc *ToolContext) SessionID() string { return tc.sessionID }

// AgentName returns the agent that requested the invocation.
func (tc *ToolContext) AgentName() string { return tc.agent }

// CallID returns the function call identifier correlating the model request
// with this execution.
func (tc *ToolContext) CallID() string { return tc.callID }

// Notes returns the session's note store.
func (tc *ToolContext) Notes() *session.NoteStore { return tc.notes }

// Logger returns the logger associated with the tool invocation.
func (tc *ToolContext) Logger() logging.Logger { return tc.logger }

// Registry resolves tool names to implementations. Registration happens at
// startup; lookups afterwards are read-only and safe for concurrent use.
type Registry struct {
	tools map[string]Tool
	order []string
}

// NewRegistry constructs a registry containing the given tools.
func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{tools: make(map[string]Tool)}
	for _, t := range tools {
		if err := r.Register(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a tool, rejecting duplicate names.
func (r *Registry) Register(t Tool) error {
	if _, exists := r.tools[t.Name()]; exists {
		return fmt.Errorf("tool %q already registered", t.Name())
	}
	r.tools[t.Name()] = t
	r.order = append(r.order, t.Name())
	return nil
}

// Get returns the tool registered under name.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Names returns all registered tool names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}
