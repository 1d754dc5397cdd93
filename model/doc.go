// Package model defines the provider-agnostic abstraction for the language
// model driving the planning loop.
//
// Core goals:
//   - Keep the contract minimal: role-tagged text turns in, free text out
//   - Stay transport independent so providers are swappable
//   - Facilitate deterministic test doubles (ScriptedModel)
//
// Providers (Gemini, OpenAI, Anthropic) implement the Model interface from
// this package so the router remains decoupled from vendor SDKs.
package model
