package model

import (
	"context"
	"fmt"
	"sync"
)

// Conversation roles. The planner's transcript uses the Gemini convention of
// "model" rather than "assistant" for generated turns; providers translate as
// needed.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Turn is one role-tagged unit of conversation history.
type Turn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// UserTurn builds a user-authored turn.
func UserTurn(text string) Turn { return Turn{Role: RoleUser, Text: text} }

// ModelTurn builds a model-authored turn.
func ModelTurn(text string) Turn { return Turn{Role: RoleModel, Text: text} }

// Info contains metadata about a model implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "gemini", "openai", "anthropic", ...
}

// Model is the minimal interface the planner requires: the full ordered
// history goes in, free text comes out. Any returned error is treated as
// fatal by the invocation that observes it.
type Model interface {
	Generate(ctx context.Context, turns []Turn) (string, error)

	// Info returns information about the model implementation.
	Info() Info
}

// ScriptedModel is a deterministic in-memory Model useful for tests. It
// replays canned outputs in order and records every history it was handed.
// Once outputs are exhausted the last one repeats, or the configured error is
// returned if one was set. Safe for concurrent use.
type ScriptedModel struct {
	mu      sync.Mutex
	outputs []string
	err     error
	next    int
	history [][]Turn
}

// NewScriptedModel constructs a ScriptedModel replaying the given outputs.
func NewScriptedModel(outputs ...string) *ScriptedModel {
	return &ScriptedModel{outputs: outputs}
}

// FailWith makes Generate return err once the scripted outputs are exhausted
// (immediately, if no outputs were scripted).
func (m *ScriptedModel) FailWith(err error) *ScriptedModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// Generate implements Model.
func (m *ScriptedModel) Generate(_ context.Context, turns []Turn) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := make([]Turn, len(turns))
	copy(snapshot, turns)
	m.history = append(m.history, snapshot)

	if m.next >= len(m.outputs) {
		if m.err != nil {
			return "", m.err
		}
		if len(m.outputs) == 0 {
			return "", fmt.Errorf("scripted model has no outputs")
		}
		return m.outputs[len(m.outputs)-1], nil
	}

	out := m.outputs[m.next]
	m.next++
	return out, nil
}

// Info implements Model.
func (m *ScriptedModel) Info() Info {
	return Info{Name: "scripted", Provider: "test"}
}

// Calls reports how many times Generate was invoked.
func (m *ScriptedModel) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.history)
}

// History returns the turns handed to the i-th Generate call.
func (m *ScriptedModel) History(i int) []Turn {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.history[i]
}
