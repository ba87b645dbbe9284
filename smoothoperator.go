// Package smoothoperator provides a high-level façade over the turn
// orchestrator and its services (agents, tools, sessions, logging) enabling
// concise construction of the multi-agent note-taking chat runtime. Most
// applications interact with this package by:
//  1. Creating a SmoothOperator via New() with a model factory
//  2. Optionally overriding the default agent graph, tool set or stores
//  3. Running turns (RunTurn) against authenticated sessions
//
// All defaults are safe for local development and testing: the default
// agent graph is concierge + archivist wired to the note tools, and the
// session store is in-memory.
package smoothoperator

import (
	"context"

	"github.com/hupe1980/smoothoperator/agent"
	"github.com/hupe1980/smoothoperator/core"
	"github.com/hupe1980/smoothoperator/logging"
	"github.com/hupe1980/smoothoperator/orchestrator"
	"github.com/hupe1980/smoothoperator/session"
	"github.com/hupe1980/smoothoperator/tool"
)

// Options configures the SmoothOperator instance.
type Options struct {
	// Agents overrides the default agent graph. EntryAgent must be among
	// them.
	Agents     []agent.Definition
	EntryAgent string

	// ExtraTools are registered in addition to the note and handoff tools
	// derived from the agent graph.
	ExtraTools []tool.Tool

	// SessionStore defaults to a fresh in-memory store.
	SessionStore *session.Store

	// MaxIterations caps generate/dispatch cycles per turn.
	MaxIterations int

	// Logger defaults to NoOp.
	Logger logging.Logger
}

// SmoothOperator aggregates the orchestrator and its services.
type SmoothOperator struct {
	orch     *orchestrator.Orchestrator
	sessions *session.Store
}

// New creates a SmoothOperator with the default concierge/archivist agent
// graph unless overridden. The model factory is called once per turn with
// the session's provider credential.
func New(modelFactory orchestrator.ModelFactory, optFns ...func(o *Options)) (*SmoothOperator, error) {
	opts := Options{
		Agents:        agent.DefaultDefinitions(),
		EntryAgent:    agent.Concierge,
		MaxIterations: orchestrator.DefaultMaxIterations,
		Logger:        logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.SessionStore == nil {
		opts.SessionStore = session.NewStore(func(o *session.Options) {
			o.Logger = opts.Logger
		})
	}

	registry, err := agent.NewRegistry(opts.EntryAgent, opts.Agents...)
	if err != nil {
		return nil, err
	}

	tools, err := buildToolRegistry(registry, opts.ExtraTools)
	if err != nil {
		return nil, err
	}

	orch, err := orchestrator.New(registry, tools, opts.SessionStore, modelFactory,
		func(o *orchestrator.Options) {
			o.MaxIterations = opts.MaxIterations
			o.Logger = opts.Logger
		})
	if err != nil {
		return nil, err
	}

	return &SmoothOperator{orch: orch, sessions: opts.SessionStore}, nil
}

// buildToolRegistry registers the note tools, any extras, and one handoff
// pseudo-tool per handoff_to_<agent> reference found in the agent graph.
func buildToolRegistry(agents *agent.Registry, extras []tool.Tool) (*tool.Registry, error) {
	tools, err := tool.NewRegistry(tool.NoteTools()...)
	if err != nil {
		return nil, err
	}
	for _, t := range extras {
		if err := tools.Register(t); err != nil {
			return nil, err
		}
	}
	for _, name := range agents.Names() {
		def, _ := agents.Get(name)
		for _, toolName := range def.Tools {
			if _, exists := tools.Get(toolName); exists {
				continue
			}
			if target, ok := agent.HandoffTarget(toolName); ok {
				if err := tools.Register(tool.NewHandoffTool(target, "")); err != nil {
					return nil, err
				}
			}
		}
	}
	return tools, nil
}

// RunTurn drives one user message through the orchestrator.
func (so *SmoothOperator) RunTurn(ctx context.Context, sessionID, userMessage string) (<-chan core.Event, error) {
	return so.orch.RunTurn(ctx, sessionID, userMessage)
}

// Sessions exposes the session store for the HTTP layer.
func (so *SmoothOperator) Sessions() *session.Store { return so.sessions }
