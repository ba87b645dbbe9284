// Package orchestrator drives one conversational turn: it seeds history with
// the user message, repeatedly asks the current agent's model for its next
// action, dispatches tool calls against the session's note store, swaps the
// current agent on handoffs, and streams events to the caller in strict
// causal order. An iteration ceiling guarantees every turn terminates.
package orchestrator
