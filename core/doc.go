// Package core provides the foundational domain types shared by the
// SmoothOperator runtime:
//
//   - Events (immutable records streamed to clients during a turn)
//   - Messages (role-tagged conversation history entries)
//   - ToolCalls (normalized function call requests surfaced by models)
//
// The package intentionally keeps implementation concerns (orchestration,
// provider adapters, session storage) out of scope so higher layers can
// depend on a small, stable vocabulary.
package core
