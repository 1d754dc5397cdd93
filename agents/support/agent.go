// Package support implements the support specialist agent: an
// instruction-only model agent for troubleshooting, general advice and
// escalation decisions. It holds no tools and no state.
package support

import (
	"context"
	"fmt"

	"github.com/bhstoller/multi-agent-customer-service/logging"
	"github.com/bhstoller/multi-agent-customer-service/model"
)

const instruction = `You are the Support Agent for a customer service system.

Your job: troubleshooting, escalation decisions, and answering support questions ONLY, such as:
- "How do I reset my password?"
- "I need help with my account"
- "I'm having trouble logging in"

If the request is purely a customer data retrieval (get, list, update records),
state that it is a data request and that the customer data agent handles it.

When customer context is included with a support question, use only the fields
provided. Answer in clear natural language.`

// Options configure the agent.
type Options struct {
	// Logger receives execution diagnostics. Defaults to NoOp.
	Logger logging.Logger
}

// Agent is the support specialist.
type Agent struct {
	model  model.Model
	logger logging.Logger
}

// New constructs the agent over a model.
func New(m model.Model, optFns ...func(o *Options)) *Agent {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &Agent{model: m, logger: opts.Logger}
}

// HandleMessage answers one support question.
func (a *Agent) HandleMessage(ctx context.Context, message string) (string, error) {
	reply, err := a.model.Generate(ctx, []model.Turn{
		model.UserTurn(instruction + "\n\nRequest: " + message),
	})
	if err != nil {
		return "", fmt.Errorf("support model call failed: %w", err)
	}
	return reply, nil
}
