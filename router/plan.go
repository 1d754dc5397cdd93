package router

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Action discriminates what one plan asks the orchestrator to do.
type Action string

const (
	// ActionCallAgent delegates a sub-query to a named specialist agent.
	ActionCallAgent Action = "call_agent"
	// ActionFinalAnswer terminates the loop with a response for the user.
	ActionFinalAnswer Action = "final_answer"
)

// ErrMalformedPlan indicates model output that could not be parsed into a
// valid plan. The orchestrator recovers with one corrective reprompt per
// occurrence rather than aborting.
var ErrMalformedPlan = errors.New("malformed action plan")

// ActionPlan is the parsed result of one planner turn. Exactly one payload
// shape is populated, selected by Action: a delegation target plus outbound
// content, or the final response text.
type ActionPlan struct {
	Thought   string `json:"thought"`
	Action    Action `json:"action"`
	AgentName string `json:"agent_name,omitempty"`
	Content   string `json:"content"`

	raw string
}

// Raw returns the cleaned model output the plan was parsed from, used when
// folding the plan back into conversation history.
func (p *ActionPlan) Raw() string { return p.raw }

// ParsePlan parses model output into an ActionPlan. Fenced code markers are
// stripped first; models wrap JSON in fences despite instructions not to.
func ParsePlan(text string) (*ActionPlan, error) {
	clean := stripFences(text)

	var plan ActionPlan
	if err := json.Unmarshal([]byte(clean), &plan); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPlan, err)
	}
	plan.raw = clean

	switch plan.Action {
	case ActionCallAgent:
		if plan.AgentName == "" {
			return nil, fmt.Errorf("%w: call_agent without agent_name", ErrMalformedPlan)
		}
		if plan.Content == "" {
			return nil, fmt.Errorf("%w: call_agent without content", ErrMalformedPlan)
		}
	case ActionFinalAnswer:
		if plan.AgentName != "" {
			return nil, fmt.Errorf("%w: final_answer with agent_name", ErrMalformedPlan)
		}
	default:
		return nil, fmt.Errorf("%w: unknown action %q", ErrMalformedPlan, plan.Action)
	}

	return &plan, nil
}

func stripFences(text string) string {
	clean := strings.ReplaceAll(text, "```json", "")
	clean = strings.ReplaceAll(clean, "```", "")
	return strings.TrimSpace(clean)
}
