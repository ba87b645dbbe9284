package tool

import "fmt"

// HandoffTool is a pseudo-tool requesting transfer of the conversation to a
// fixed target agent. It never executes anything itself; the orchestrator
// recognizes the tool kind, swaps the current agent and records the transfer
// in history.
type HandoffTool struct {
	target      string
	description string
}

// NewHandoffTool constructs the handoff pseudo-tool for the named target
// agent. Its tool name follows the handoff_to_<agent> convention so agent
// definitions can reference it like any other tool.
func NewHandoffTool(target, description string) *HandoffTool {
	if description == "" {
		description = fmt.Sprintf("Hand off the conversation to the %s agent.", target)
	}
	return &HandoffTool{target: target, description: description}
}

// Target returns the agent name control transfers to.
func (t *HandoffTool) Target() string { return t.target }

// Name returns the handoff tool name, handoff_to_<target>.
func (t *HandoffTool) Name() string { return "handoff_to_" + t.target }

// Description returns the transfer description exposed to models.
func (t *HandoffTool) Description() string { return t.description }

// Parameters accepts an optional free-text reason so models can explain the
// transfer; nothing is required.
func (t *HandoffTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"reason": map[string]any{
				"type":        "string",
				"description": "Reason for the handoff",
			},
		},
	}
}

// Call returns the acknowledgement recorded in history for the handoff call
// id. The agent switch itself is performed by the orchestrator.
func (t *HandoffTool) Call(_ *ToolContext, _ map[string]any) (any, error) {
	return map[string]any{"success": true, "handed_off": t.target}, nil
}
