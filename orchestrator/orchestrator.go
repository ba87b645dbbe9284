package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hupe1980/smoothoperator/agent"
	"github.com/hupe1980/smoothoperator/core"
	"github.com/hupe1980/smoothoperator/logging"
	"github.com/hupe1980/smoothoperator/model"
	"github.com/hupe1980/smoothoperator/session"
	"github.com/hupe1980/smoothoperator/tool"
)

// DefaultMaxIterations bounds the generate/dispatch cycles of one turn.
// Every cycle counts uniformly, including pure text completions and
// handoffs.
const DefaultMaxIterations = 10

// Precondition errors returned by RunTurn before any event is emitted.
var (
	ErrSessionNotFound  = errors.New("session not found or expired")
	ErrNotAuthenticated = errors.New("session not fully authenticated")
)

// ModelFactory builds a completion model bound to a session's provider
// credential. Called once per turn.
type ModelFactory func(apiKey string) model.Model

// Options hold configuration overrides passed to New().
type Options struct {
	// MaxIterations caps generate/dispatch cycles per turn.
	MaxIterations int
	// EventBufferSize sets channel buffering for emitted events.
	EventBufferSize int
	// Logger receives turn lifecycle logs.
	Logger logging.Logger
}

// Orchestrator coordinates agents, tools and sessions for the duration of
// one turn at a time per session. Safe for concurrent use across sessions;
// a session never has two turns in flight simultaneously (caller-side
// invariant).
type Orchestrator struct {
	agents       *agent.Registry
	tools        *tool.Registry
	sessions     *session.Store
	modelFactory ModelFactory

	maxIterations   int
	eventBufferSize int
	logger          logging.Logger
}

// New constructs an Orchestrator and validates the agent/tool graph once at
// startup: every tool name an agent references must resolve in the registry,
// and every handoff target must be a registered agent.
func New(
	agents *agent.Registry,
	tools *tool.Registry,
	sessions *session.Store,
	modelFactory ModelFactory,
	optFns ...func(o *Options),
) (*Orchestrator, error) {
	opts := Options{
		MaxIterations:   DefaultMaxIterations,
		EventBufferSize: 100,
		Logger:          logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	for _, name := range agents.Names() {
		def, _ := agents.Get(name)
		for _, toolName := range def.Tools {
			t, ok := tools.Get(toolName)
			if !ok {
				return nil, fmt.Errorf("agent %q references unregistered tool %q", name, toolName)
			}
			if h, ok := t.(*tool.HandoffTool); ok {
				if _, ok := agents.Get(h.Target()); !ok {
					return nil, fmt.Errorf("handoff tool %q targets unregistered agent %q", toolName, h.Target())
				}
			}
		}
	}

	return &Orchestrator{
		agents:          agents,
		tools:           tools,
		sessions:        sessions,
		modelFactory:    modelFactory,
		maxIterations:   opts.MaxIterations,
		eventBufferSize: opts.EventBufferSize,
		logger:          opts.Logger,
	}, nil
}

// RunTurn drives one user message through the handoff/tool loop, returning
// the event stream for the turn. The stream always terminates: a done event
// closes every turn (preceded by exactly one error event on failure), and
// the channel is closed afterwards. Cancelling ctx stops the turn at the
// next suspension point and closes the channel without a done event.
func (o *Orchestrator) RunTurn(ctx context.Context, sessionID, userMessage string) (<-chan core.Event, error) {
	sess, ok := o.sessions.Get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	if !sess.Authenticated() {
		return nil, ErrNotAuthenticated
	}
	notes, ok := o.sessions.Notes(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}

	entry, _ := o.agents.Get(o.agents.Entry())
	turnID := core.NewID()
	t := &turn{
		orch:      o,
		sessionID: sessionID,
		notes:     notes,
		mdl:       o.modelFactory(sess.APIKey),
		out:       make(chan core.Event, o.eventBufferSize),
		logger:    logging.WithSession(o.logger, sessionID, turnID),
		current:   entry,
	}

	go func() {
		defer close(t.out)
		t.run(ctx, userMessage)
	}()
	return t.out, nil
}

// fault is a turn-terminating error carrying its event kind.
type fault struct {
	kind    core.ErrorKind
	message string
}

func (f *fault) Error() string { return f.message }

// turn holds the ephemeral state of one orchestrator invocation. It is
// discarded at turn end and never shared across turns or sessions.
type turn struct {
	orch      *Orchestrator
	sessionID string
	notes     *session.NoteStore
	mdl       model.Model
	out       chan core.Event
	logger    logging.Logger

	history   []core.Message
	current   agent.Definition
	iteration int
}

// run executes the turn state machine. Event ordering follows the dispatch
// sequence exactly; the final event is always done unless ctx was cancelled.
func (t *turn) run(ctx context.Context, userMessage string) {
	if !t.emit(ctx, core.NewUserMessageEvent(userMessage)) {
		return
	}
	t.history = append(t.history, core.NewUserMessage(userMessage))
	t.logger.Info("turn started", "entry_agent", t.current.Name)

	completed := false
	for t.iteration < t.orch.maxIterations {
		t.iteration++
		more, err := t.step(ctx)
		if err != nil {
			var f *fault
			if errors.As(err, &f) {
				t.logger.Warn("turn faulted", "kind", string(f.kind), "error", f.message)
				t.emit(ctx, core.NewErrorEvent(t.current.Name, f.kind, f.message))
				t.emit(ctx, core.NewDoneEvent(t.current.Name))
			}
			// Cancellation closes the stream without a done event.
			return
		}
		if !more {
			completed = true
			break
		}
	}

	if !completed {
		t.logger.Warn("turn hit iteration ceiling", "iterations", t.iteration)
		if !t.emit(ctx, core.NewErrorEvent(t.current.Name, core.ErrorKindIterationLimit,
			fmt.Sprintf("turn did not complete within %d iterations", t.orch.maxIterations))) {
			return
		}
	}
	t.logger.Info("turn finished", "agent", t.current.Name, "iterations", t.iteration)
	t.emit(ctx, core.NewDoneEvent(t.current.Name))
}

// step performs one generate/dispatch cycle. It returns whether the loop
// should continue: false on a pure text completion (natural end), true after
// tool or handoff dispatch.
func (t *turn) step(ctx context.Context) (bool, error) {
	req := model.Request{
		Instructions: t.current.Instructions,
		Messages:     t.history,
		Tools:        t.toolDefinitions(),
		Stream:       true,
	}

	final, err := t.consume(ctx, req)
	if err != nil {
		return false, err
	}

	// Providers occasionally omit call ids; assign them so every call can be
	// answered in history.
	for i := range final.ToolCalls {
		if final.ToolCalls[i].ID == "" {
			final.ToolCalls[i].ID = core.NewID()
		}
	}
	t.history = append(t.history, core.NewAssistantMessage(t.current.Name, final.Text, final.ToolCalls))

	if len(final.ToolCalls) == 0 {
		return false, nil
	}
	return true, t.dispatch(ctx, final.ToolCalls)
}

// consume runs one model generation, logging its latency and outcome.
func (t *turn) consume(ctx context.Context, req model.Request) (*model.Response, error) {
	start := time.Now()
	final, err := t.drain(ctx, req)
	logging.LogModelCall(t.logger, t.mdl.Info().Name, time.Since(start), err)
	return final, err
}

// drain pumps one model generation, emitting content deltas as they arrive
// and returning the final response. The awaits here are the turn's
// suspension points.
func (t *turn) drain(ctx context.Context, req model.Request) (*model.Response, error) {
	respCh, errCh := t.mdl.Generate(ctx, req)
	var final *model.Response
	for respCh != nil || errCh != nil {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case resp, ok := <-respCh:
			if !ok {
				respCh = nil
				continue
			}
			if resp.Partial {
				if resp.Text != "" && !t.emit(ctx, core.NewContentDeltaEvent(t.current.Name, resp.Text)) {
					return nil, ctx.Err()
				}
				continue
			}
			r := resp
			final = &r
		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return nil, err
				}
				return nil, &fault{kind: core.ErrorKindProvider, message: err.Error()}
			}
		}
	}
	if final == nil {
		return nil, &fault{kind: core.ErrorKindProvider, message: "provider stream ended without a final response"}
	}
	return final, nil
}

// dispatch executes the tool calls of one assistant response in order.
// Permission checks run against the agent that issued the calls even if an
// earlier call in the batch handed control to another agent.
func (t *turn) dispatch(ctx context.Context, calls []core.ToolCall) error {
	issuer := t.current
	for _, tc := range calls {
		if !issuer.Allows(tc.Name) {
			return &fault{
				kind:    core.ErrorKindUnknownTool,
				message: fmt.Sprintf("agent %q is not permitted to call tool %q", issuer.Name, tc.Name),
			}
		}
		impl, ok := t.orch.tools.Get(tc.Name)
		if !ok {
			return &fault{kind: core.ErrorKindUnknownTool, message: fmt.Sprintf("unknown tool %q", tc.Name)}
		}

		args, argErr := tc.ArgumentMap()
		if argErr != nil {
			// Malformed argument JSON from the provider: absorbed like any
			// validation failure so the agent can retry.
			args = map[string]any{}
		}
		if !t.emit(ctx, core.NewToolCallEvent(issuer.Name, tc.Name, args)) {
			return ctx.Err()
		}

		if h, ok := impl.(*tool.HandoffTool); ok {
			if err := t.handoff(ctx, h, tc, args); err != nil {
				return err
			}
			continue
		}

		if argErr != nil {
			result := failurePayload(tool.NewToolError(tc.Name, fmt.Sprintf("malformed arguments: %v", argErr), tool.CodeValidation))
			t.history = append(t.history, core.NewToolResultMessage(tc.ID, result))
			if !t.emit(ctx, core.NewToolResultEvent(issuer.Name, tc.Name, result)) {
				return ctx.Err()
			}
			continue
		}

		toolCtx := tool.NewToolContext(ctx, t.sessionID, issuer.Name, tc.ID, t.notes, t.logger)
		result, err := impl.Call(toolCtx, args)
		if err != nil {
			// Tool-level errors are recoverable: record the failure so the
			// agent can react on its next iteration.
			result = failurePayload(err)
		}
		t.history = append(t.history, core.NewToolResultMessage(tc.ID, result))
		if !t.emit(ctx, core.NewToolResultEvent(issuer.Name, tc.Name, result)) {
			return ctx.Err()
		}
	}
	return nil
}

// handoff swaps the current agent and records the transfer in history under
// the handoff call id so the next completion request stays well-formed.
func (t *turn) handoff(ctx context.Context, h *tool.HandoffTool, tc core.ToolCall, args map[string]any) error {
	target, ok := t.orch.agents.Get(h.Target())
	if !ok {
		return &fault{kind: core.ErrorKindUnknownAgent, message: fmt.Sprintf("unknown handoff target %q", h.Target())}
	}
	ack, _ := h.Call(nil, args)
	t.history = append(t.history, core.NewToolResultMessage(tc.ID, ack))
	t.current = target
	t.logger.Info("agent handoff", "agent", target.Name)
	if !t.emit(ctx, core.NewAgentUpdatedEvent(target.Name, fmt.Sprintf("→ Handing off to %s", target.Name))) {
		return ctx.Err()
	}
	return nil
}

func (t *turn) toolDefinitions() []model.ToolDefinition {
	defs := make([]model.ToolDefinition, 0, len(t.current.Tools))
	for _, name := range t.current.Tools {
		impl, ok := t.orch.tools.Get(name)
		if !ok {
			continue // wiring is validated at startup
		}
		defs = append(defs, model.ToolDefinition{
			Name:        impl.Name(),
			Description: impl.Description(),
			Parameters:  impl.Parameters(),
		})
	}
	return defs
}

func (t *turn) emit(ctx context.Context, ev core.Event) bool {
	select {
	case <-ctx.Done():
		return false
	case t.out <- ev:
		return true
	}
}

func failurePayload(err error) map[string]any {
	var toolErr *tool.ToolError
	if errors.As(err, &toolErr) {
		return map[string]any{"success": false, "error": toolErr.Message, "code": toolErr.Code}
	}
	return map[string]any{"success": false, "error": err.Error()}
}
