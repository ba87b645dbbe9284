package model

import (
	"context"
	"fmt"
	"sync"

	"github.com/hupe1980/smoothoperator/core"
)

// ToolDefinition declaratively exposes a callable function to the model.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"` // JSON Schema
}

// Request captures the normalized model input produced by the orchestrator:
// the current agent's instructions, the turn history so far and the tool
// schemas the agent is permitted to call.
type Request struct {
	Instructions string           `json:"instructions"`
	Messages     []core.Message   `json:"messages"`
	Tools        []ToolDefinition `json:"tools,omitempty"`
	Stream       bool             `json:"stream,omitempty"`
}

// Response is a (partial or final) chunk emitted by a streaming model.
// Partial chunks carry an incremental text delta; the final chunk carries
// the accumulated text plus any fully-materialized tool calls.
type Response struct {
	Partial      bool            `json:"partial"`
	Text         string          `json:"text"`
	ToolCalls    []core.ToolCall `json:"tool_calls,omitempty"`
	FinishReason string          `json:"finish_reason,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"` // "openai", "anthropic", "scripted", ...
	SupportsTools bool   `json:"supports_tools"`
}

// Model is the minimal interface required by the orchestrator to drive
// generation. The returned sequence is lazy, finite and consumed once; both
// channels are closed when generation ends.
type Model interface {
	Generate(ctx context.Context, req Request) (<-chan Response, <-chan error)

	// Info returns information about the model implementation.
	Info() Info
}

// ScriptedModel is a lightweight in-memory Model useful for tests and
// examples. Each Generate call consumes the next scripted step: its text is
// streamed rune by rune as partial chunks (when streaming is requested)
// followed by a final chunk carrying text and tool calls. An exhausted or
// error step surfaces on the error channel.
type ScriptedModel struct {
	mu    sync.Mutex
	steps []ScriptedStep
	next  int
}

// ScriptedStep is one canned completion.
type ScriptedStep struct {
	Text      string
	ToolCalls []core.ToolCall
	Err       error
}

// NewScriptedModel constructs a model that replays the given steps in order.
func NewScriptedModel(steps ...ScriptedStep) *ScriptedModel {
	return &ScriptedModel{steps: steps}
}

// Generate implements Model; replays the next scripted step.
func (m *ScriptedModel) Generate(ctx context.Context, req Request) (<-chan Response, <-chan error) {
	respCh := make(chan Response, 16)
	errCh := make(chan error, 1)

	m.mu.Lock()
	var step ScriptedStep
	exhausted := m.next >= len(m.steps)
	if !exhausted {
		step = m.steps[m.next]
		m.next++
	}
	m.mu.Unlock()

	go func() {
		defer close(respCh)
		defer close(errCh)
		if exhausted {
			errCh <- fmt.Errorf("scripted model: no steps left")
			return
		}
		if step.Err != nil {
			errCh <- step.Err
			return
		}
		if req.Stream {
			for _, r := range step.Text {
				select {
				case <-ctx.Done():
					errCh <- ctx.Err()
					return
				case respCh <- Response{Partial: true, Text: string(r)}:
				}
			}
		}
		respCh <- Response{
			Text:         step.Text,
			ToolCalls:    step.ToolCalls,
			FinishReason: finishReason(step),
		}
	}()
	return respCh, errCh
}

// Info implements Model.
func (m *ScriptedModel) Info() Info {
	return Info{Name: "scripted", Provider: "scripted", SupportsTools: true}
}

func finishReason(step ScriptedStep) string {
	if len(step.ToolCalls) > 0 {
		return "tool_calls"
	}
	return "stop"
}
