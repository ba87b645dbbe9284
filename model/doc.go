// Package model defines the provider-agnostic abstractions for driving
// streaming completion backends.
//
// Core goals:
//   - Unify streaming + non-streaming generation behind a single interface
//   - Normalize tool / function call representation (ToolDefinition, core.ToolCall)
//   - Keep request/response shapes minimal and transport independent
//   - Facilitate lightweight scripting for tests (ScriptedModel)
//
// Providers (OpenAI, Anthropic) implement the Model interface from this
// package so the orchestrator remains decoupled from vendor SDKs. Adapters
// do not interpret tool semantics; distinguishing handoff from data tools is
// the orchestrator's job.
package model
